package resolver

import (
	"bytes"
	"path"
)

// FileFormat is the module format of a resolved file. FormatNone means the
// resolution succeeded but the format could not be determined, which is a
// valid outcome rather than an error.
type FileFormat string

const (
	FormatNone     FileFormat = ""
	FormatModule   FileFormat = "module"
	FormatCommonJS FileFormat = "commonjs"
	FormatJSON     FileFormat = "json"
	FormatWasm     FileFormat = "wasm"
	FormatBuiltin  FileFormat = "builtin"
)

// wasmMagic is the leading byte sequence of every WebAssembly binary.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// getPackageFormat classifies a resolved, existing file. ".js" and
// extensionless files defer to the "type" field of the enclosing package
// scope; ".wasm" and the wasm magic-number sniff are gated behind the
// experimental flag, matching --experimental-wasm-modules.
func (r *Resolver) getPackageFormat(filePath string) (FileFormat, error) {
	switch path.Ext(filePath) {
	case ".mjs":
		return FormatModule, nil
	case ".cjs":
		return FormatCommonJS, nil
	case ".json":
		return FormatJSON, nil
	case ".wasm":
		if r.wasmModules {
			return FormatWasm, nil
		}
		return FormatNone, nil
	case ".js":
		scopeType, err := r.getScopeType(filePath)
		if err != nil {
			return FormatNone, err
		}
		if scopeType != "" {
			return FileFormat(scopeType), nil
		}
		return FormatCommonJS, nil
	default:
		if path.Ext(filePath) == "" && r.wasmModules {
			if magic, err := r.fsys.ReadBytes(filePath, 4); err == nil && bytes.Equal(magic, wasmMagic) {
				return FormatWasm, nil
			}
		}
		scopeType, err := r.getScopeType(filePath)
		if err != nil {
			return FormatNone, err
		}
		if scopeType != "" {
			return FileFormat(scopeType), nil
		}
		return FormatNone, nil
	}
}

// getScopeType returns the "type" field of the file's enclosing package
// scope, or "" when there is no scope or no type field.
func (r *Resolver) getScopeType(filePath string) (string, error) {
	scopeDir, found := r.getPackageScope(pathToFileURL(filePath))
	if !found {
		return "", nil
	}
	packageJson, err := r.getPackageJson(scopeDir)
	if err != nil {
		return "", err
	}
	if packageJson == nil {
		return "", nil
	}
	return packageJson.Type, nil
}
