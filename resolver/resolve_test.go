package resolver

import (
	"testing"
)

func newTestResolver(files map[string]string, options Options) (*Resolver, *MockFileSystem) {
	fsys := NewMockFileSystem(files)
	options.FileSystem = fsys
	return New(options), fsys
}

func expectError(t *testing.T, err error, kind ErrKind) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected %s error, got nil", ErrKindToString(kind))
		return
	}
	resolveErr, ok := err.(*ResolveError)
	if !ok {
		t.Errorf("Expected *ResolveError, got %T: %v", err, err)
		return
	}
	if resolveErr.Kind != kind {
		t.Errorf("Expected %s error, got %s", ErrKindToString(kind), ErrKindToString(resolveErr.Kind))
	}
}

func TestShouldResolveRelativeSpecifier(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/a.js": "",
		"/app/b.js": "",
	}, Options{})

	resolution, err := r.Resolve("./b.js", "/app/a.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/b.js" {
		t.Errorf("Expected /app/b.js, got %s", resolution.Path)
	}
	if resolution.Format != FormatCommonJS {
		t.Errorf("Expected commonjs format outside any module scope, got %q", resolution.Format)
	}
}

func TestShouldResolveParentRelativeSpecifier(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/src/a.js": "",
		"/app/b.js":     "",
	}, Options{})

	resolution, err := r.Resolve("../b.js", "/app/src/a.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/b.js" {
		t.Errorf("Expected /app/b.js, got %s", resolution.Path)
	}
}

func TestShouldAcceptFileURLParent(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/a.js": "",
		"/app/b.js": "",
	}, Options{})

	fromPath, err := r.Resolve("./b.js", "/app/a.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	fromURL, err := r.Resolve("./b.js", "file:///app/a.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if fromPath != fromURL {
		t.Errorf("Expected identical resolutions for path and file URL parents, got %+v and %+v", fromPath, fromURL)
	}
}

func TestShouldBeDeterministicAcrossRepeatedCalls(t *testing.T) {
	// Caching is off so every call runs the full algorithm.
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/pkg/package.json": `{"name":"pkg","exports":{".":"./main.js"}}`,
		"/app/node_modules/pkg/main.js":      "",
	}, Options{DisableCache: true})

	first, err := r.Resolve("pkg", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := r.Resolve("pkg", "/app/main.js")
		if err != nil {
			t.Errorf("Expected no error on call %d, got %v", i, err)
		}
		if next != first {
			t.Errorf("Expected %+v on call %d, got %+v", first, i, next)
		}
	}
}

func TestShouldServeStaleResultsFromCacheAfterFileRemoval(t *testing.T) {
	r, fsys := newTestResolver(map[string]string{
		"/app/a.js": "",
		"/app/b.js": "",
	}, Options{})

	first, err := r.Resolve("./b.js", "/app/a.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	fsys.RemoveFile("/app/b.js")

	// The cache is never invalidated, so the deleted file still resolves.
	second, err := r.Resolve("./b.js", "/app/a.js")
	if err != nil {
		t.Errorf("Expected cached resolution after file removal, got %v", err)
	}
	if second != first {
		t.Errorf("Expected cached %+v, got %+v", first, second)
	}
}

func TestShouldSeeFileRemovalWithCacheDisabled(t *testing.T) {
	r, fsys := newTestResolver(map[string]string{
		"/app/a.js": "",
		"/app/b.js": "",
	}, Options{DisableCache: true})

	if _, err := r.Resolve("./b.js", "/app/a.js"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	fsys.RemoveFile("/app/b.js")

	_, err := r.Resolve("./b.js", "/app/a.js")
	expectError(t, err, ErrModuleNotFound)
}

func TestShouldRejectDirectoryImport(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js":      "",
		"/app/lib/index.js": "",
	}, Options{})

	_, err := r.Resolve("./lib", "/app/main.js")
	expectError(t, err, ErrUnsupportedDirectoryImport)
}

func TestShouldFailOnMissingFile(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
	}, Options{})

	_, err := r.Resolve("./missing.js", "/app/main.js")
	expectError(t, err, ErrModuleNotFound)
}

func TestShouldRejectEmptySpecifier(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve("", "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldRejectBackslashInPackageName(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve(`vite\runtime`, "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldRejectPercentInPackageName(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve("vite%runtime", "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldRejectTrailingSlashSpecifier(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve("vite/runtime/", "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldRejectScopedSpecifierWithoutPackageName(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve("@scope", "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldRejectEncodedSeparatorInRelativeSpecifier(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/a/b.js":  "",
	}, Options{})

	_, err := r.Resolve("./a%2Fb.js", "/app/main.js")
	expectError(t, err, ErrInvalidModuleSpecifier)
}

func TestShouldResolveBuiltinModule(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	resolution, err := r.Resolve("fs", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "node:fs" {
		t.Errorf("Expected node:fs, got %s", resolution.Path)
	}
	if resolution.Format != FormatBuiltin {
		t.Errorf("Expected builtin format, got %q", resolution.Format)
	}
}

func TestShouldResolveBuiltinSubpath(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	resolution, err := r.Resolve("fs/promises", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "node:fs/promises" {
		t.Errorf("Expected node:fs/promises, got %s", resolution.Path)
	}
}

func TestShouldResolvePrefixedBuiltinModule(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	resolution, err := r.Resolve("node:path", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "node:path" {
		t.Errorf("Expected node:path, got %s", resolution.Path)
	}
	if resolution.Format != FormatBuiltin {
		t.Errorf("Expected builtin format, got %q", resolution.Format)
	}
}

func TestShouldPreferLocalPackageOverBuiltinLookingName(t *testing.T) {
	// "fs-extra" is not a builtin even though it starts with a builtin name.
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/fs-extra/package.json": `{"name":"fs-extra","main":"index.js"}`,
		"/app/node_modules/fs-extra/index.js":     "",
	}, Options{})

	resolution, err := r.Resolve("fs-extra", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/fs-extra/index.js" {
		t.Errorf("Expected node_modules resolution, got %s", resolution.Path)
	}
}

func TestShouldPassThroughDataURLs(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	cases := []struct {
		specifier string
		format    FileFormat
	}{
		{"data:text/javascript,export default 1", FormatModule},
		{"data:text/javascript;base64,ZXhwb3J0IHt9", FormatModule},
		{"data:application/json,{}", FormatJSON},
		{"data:application/wasm;base64,AGFzbQ==", FormatWasm},
		{"data:text/plain,hello", FormatNone},
	}

	for _, c := range cases {
		resolution, err := r.Resolve(c.specifier, "/app/main.js")
		if err != nil {
			t.Errorf("Expected no error for %s, got %v", c.specifier, err)
			continue
		}
		if resolution.Path != c.specifier {
			t.Errorf("Expected data URL to pass through unchanged, got %s", resolution.Path)
		}
		if resolution.Format != c.format {
			t.Errorf("Expected %q format for %s, got %q", c.format, c.specifier, resolution.Format)
		}
	}
}

func TestShouldPassThroughForeignProtocols(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	resolution, err := r.Resolve("https://example.com/mod.js", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "https://example.com/mod.js" {
		t.Errorf("Expected URL to pass through unchanged, got %s", resolution.Path)
	}
	if resolution.Format != FormatNone {
		t.Errorf("Expected no format for foreign protocol, got %q", resolution.Format)
	}
}

func TestShouldWalkNodeModulesUpward(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/repo/packages/app/src/main.js": "",
		"/repo/node_modules/shared/package.json": `{"name":"shared","exports":{".":"./index.js"}}`,
		"/repo/node_modules/shared/index.js":     "",
	}, Options{})

	resolution, err := r.Resolve("shared", "/repo/packages/app/src/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/repo/node_modules/shared/index.js" {
		t.Errorf("Expected hoisted package resolution, got %s", resolution.Path)
	}
}

func TestShouldPreferNearestNodeModules(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/repo/app/main.js": "",
		"/repo/app/node_modules/dep/package.json": `{"name":"dep","main":"near.js"}`,
		"/repo/app/node_modules/dep/near.js":      "",
		"/repo/node_modules/dep/package.json":     `{"name":"dep","main":"far.js"}`,
		"/repo/node_modules/dep/far.js":           "",
	}, Options{})

	resolution, err := r.Resolve("dep", "/repo/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/repo/app/node_modules/dep/near.js" {
		t.Errorf("Expected the nearest node_modules copy, got %s", resolution.Path)
	}
}

func TestShouldFailWhenPackageIsNowhereInstalled(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"/app/main.js": ""}, Options{})

	_, err := r.Resolve("left-pad", "/app/main.js")
	expectError(t, err, ErrModuleNotFound)
}

func TestShouldResolveScopedPackage(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/@scope/pkg/package.json": `{"name":"@scope/pkg","exports":{".":"./entry.js","./sub":"./sub.js"}}`,
		"/app/node_modules/@scope/pkg/entry.js":     "",
		"/app/node_modules/@scope/pkg/sub.js":       "",
	}, Options{})

	resolution, err := r.Resolve("@scope/pkg", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/@scope/pkg/entry.js" {
		t.Errorf("Expected scoped package entry, got %s", resolution.Path)
	}

	resolution, err = r.Resolve("@scope/pkg/sub", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/@scope/pkg/sub.js" {
		t.Errorf("Expected scoped package subpath, got %s", resolution.Path)
	}
}

func TestShouldResolveMainFieldWithoutExports(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/legacy/package.json":  `{"name":"legacy","main":"lib/index.js"}`,
		"/app/node_modules/legacy/lib/index.js":  "",
		"/app/node_modules/legacy/lib/extra.cjs": "",
	}, Options{})

	resolution, err := r.Resolve("legacy", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/legacy/lib/index.js" {
		t.Errorf("Expected main field resolution, got %s", resolution.Path)
	}

	// Without exports any subpath maps straight onto the package directory.
	resolution, err = r.Resolve("legacy/lib/extra.cjs", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/legacy/lib/extra.cjs" {
		t.Errorf("Expected raw subpath resolution, got %s", resolution.Path)
	}
}

func TestShouldRejectPackageWithoutMainOrExports(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/bare/package.json": `{"name":"bare"}`,
		"/app/node_modules/bare/index.js":     "",
	}, Options{})

	// The package directory itself is the candidate, and directories are
	// never importable.
	_, err := r.Resolve("bare", "/app/main.js")
	expectError(t, err, ErrUnsupportedDirectoryImport)
}

func TestShouldParsePackageJsonWithCommentsAndTrailingCommas(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/pkg/package.json": `{
			// entry point
			"name": "pkg",
			"exports": {".": "./main.js",},
		}`,
		"/app/node_modules/pkg/main.js": "",
	}, Options{})

	resolution, err := r.Resolve("pkg", "/app/main.js")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if resolution.Path != "/app/node_modules/pkg/main.js" {
		t.Errorf("Expected /app/node_modules/pkg/main.js, got %s", resolution.Path)
	}
}

func TestShouldFailOnUnparseablePackageJson(t *testing.T) {
	r, _ := newTestResolver(map[string]string{
		"/app/main.js": "",
		"/app/node_modules/broken/package.json": `{"name": `,
		"/app/node_modules/broken/index.js":     "",
	}, Options{})

	_, err := r.Resolve("broken", "/app/main.js")
	expectError(t, err, ErrInvalidPackageConfiguration)
}

func TestShouldUsePackageLevelResolveFunction(t *testing.T) {
	// The package-level helper hits the real file system, so only failure
	// shapes can be asserted here.
	_, err := Resolve("definitely-not-installed-anywhere", "/nonexistent/main.js")
	expectError(t, err, ErrModuleNotFound)
}
