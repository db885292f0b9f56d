package resolver

import (
	"io"
	"os"
	"path"
	"strings"
)

// FileSystem is the narrow disk interface the resolver consumes. All paths
// are absolute and use forward slashes. A virtual implementation can be
// supplied for testing or for resolving against an in-memory tree.
type FileSystem interface {
	IsFile(filePath string) bool
	IsDirectory(filePath string) bool
	ReadFile(filePath string) (string, error)
	// ReadBytes returns up to n leading bytes of the file.
	ReadBytes(filePath string, n int) ([]byte, error)
}

// OSFileSystem delegates to the real file system.
type OSFileSystem struct{}

func (OSFileSystem) IsFile(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}

func (OSFileSystem) IsDirectory(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && info.IsDir()
}

func (OSFileSystem) ReadFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (OSFileSystem) ReadBytes(filePath string, n int) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}

// MockFileSystem is an in-memory FileSystem built from a map of file path to
// file content. Directories are derived from the file paths.
type MockFileSystem struct {
	files map[string]string
	dirs  map[string]bool
}

func NewMockFileSystem(input map[string]string) *MockFileSystem {
	files := make(map[string]string, len(input))
	dirs := map[string]bool{"/": true}

	for filePath, content := range input {
		filePath = path.Clean(filePath)
		files[filePath] = content

		dir := path.Dir(filePath)
		for dir != "/" && dir != "." {
			dirs[dir] = true
			dir = path.Dir(dir)
		}
	}

	return &MockFileSystem{files: files, dirs: dirs}
}

func (m *MockFileSystem) IsFile(filePath string) bool {
	_, has := m.files[path.Clean(filePath)]
	return has
}

func (m *MockFileSystem) IsDirectory(filePath string) bool {
	return m.dirs[path.Clean(filePath)]
}

func (m *MockFileSystem) ReadFile(filePath string) (string, error) {
	content, has := m.files[path.Clean(filePath)]
	if !has {
		return "", os.ErrNotExist
	}
	return content, nil
}

func (m *MockFileSystem) ReadBytes(filePath string, n int) ([]byte, error) {
	content, err := m.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if len(content) > n {
		content = content[:n]
	}
	return []byte(content), nil
}

// RemoveFile deletes a file from the mock tree. Used by tests that mutate
// the file system between calls to observe cache behaviour.
func (m *MockFileSystem) RemoveFile(filePath string) {
	delete(m.files, path.Clean(filePath))
}

// AddFile inserts a file, creating parent directories implicitly.
func (m *MockFileSystem) AddFile(filePath string, content string) {
	filePath = path.Clean(filePath)
	m.files[filePath] = content
	dir := path.Dir(filePath)
	for dir != "/" && dir != "." {
		m.dirs[dir] = true
		dir = path.Dir(dir)
	}
}

var _ FileSystem = OSFileSystem{}
var _ FileSystem = (*MockFileSystem)(nil)

// lastSegmentIs reports whether the last path segment equals name.
func lastSegmentIs(filePath string, name string) bool {
	return path.Base(strings.TrimSuffix(filePath, "/")) == name
}
