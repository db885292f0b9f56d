package resolver

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
)

// PackageJson is the sparse projection of a package manifest the resolver
// needs. It is loaded fresh per lookup and never mutated.
type PackageJson struct {
	Name    string
	Type    string
	Main    string
	Exports *ExportsValue
	Imports *ExportsValue
	Engines map[string]string
}

type exportsKind int

const (
	exportsString exportsKind = iota
	exportsArray
	exportsObject
	exportsNull
	// Numbers and booleans are representable in JSON but never valid
	// targets. They are kept as a distinct variant so array resolution can
	// skip over them element by element.
	exportsInvalid
)

// ExportsValue is the tagged union of package "exports"/"imports" values: a
// string target, an ordered array of fallbacks, an ordered object (subpath
// or condition map), null, or an invalid scalar. Object entries preserve
// declaration order because condition maps are matched first-key-wins.
type ExportsValue struct {
	kind    exportsKind
	str     string
	arr     []*ExportsValue
	entries []exportsEntry
}

type exportsEntry struct {
	key   string
	value *ExportsValue
}

// lookup returns the value for a key in an object value. Later duplicates
// win, matching JSON.parse.
func (v *ExportsValue) lookup(key string) (*ExportsValue, bool) {
	var found *ExportsValue
	for i := range v.entries {
		if v.entries[i].key == key {
			found = v.entries[i].value
		}
	}
	return found, found != nil
}

// allKeysRelative reports whether every object key starts with "." (subpath
// map). An object where only some keys do is invalid.
func (v *ExportsValue) allKeysRelative() bool {
	for i := range v.entries {
		if !strings.HasPrefix(v.entries[i].key, ".") {
			return false
		}
	}
	return true
}

func (v *ExportsValue) noKeysRelative() bool {
	for i := range v.entries {
		if strings.HasPrefix(v.entries[i].key, ".") {
			return false
		}
	}
	return true
}

func decodeExportsValue(raw json.RawMessage) (*ExportsValue, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	value, err := decodeExportsToken(dec)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func decodeExportsToken(dec *json.Decoder) (*ExportsValue, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := token.(type) {
	case string:
		return &ExportsValue{kind: exportsString, str: t}, nil
	case nil:
		return &ExportsValue{kind: exportsNull}, nil
	case json.Number, bool:
		return &ExportsValue{kind: exportsInvalid}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := []*ExportsValue{}
			for dec.More() {
				element, err := decodeExportsToken(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, element)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &ExportsValue{kind: exportsArray, arr: arr}, nil
		case '{':
			entries := []exportsEntry{}
			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyToken.(string)
				value, err := decodeExportsToken(dec)
				if err != nil {
					return nil, err
				}
				entries = append(entries, exportsEntry{key: key, value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &ExportsValue{kind: exportsObject, entries: entries}, nil
		}
	}
	return &ExportsValue{kind: exportsInvalid}, nil
}

// getPackageJson reads and parses <packageDir>/package.json. An absent file
// is not an error and returns nil. A present but unparseable file is an
// invalid package configuration. Content is run through jsonc first since
// manifests with comments or trailing commas are common in the wild.
func (r *Resolver) getPackageJson(packageDir string) (*PackageJson, error) {
	manifestPath := path.Join(packageDir, "package.json")
	if !r.fsys.IsFile(manifestPath) {
		return nil, nil
	}

	content, err := r.fsys.ReadFile(manifestPath)
	if err != nil {
		return nil, newResolveError(ErrInvalidPackageConfiguration, manifestPath, "could not be read")
	}

	var raw struct {
		Name    string            `json:"name"`
		Type    string            `json:"type"`
		Main    string            `json:"main"`
		Exports json.RawMessage   `json:"exports"`
		Imports json.RawMessage   `json:"imports"`
		Engines map[string]string `json:"engines"`
	}

	if err := json.Unmarshal(jsonc.ToJSON([]byte(content)), &raw); err != nil {
		return nil, newResolveError(ErrInvalidPackageConfiguration, manifestPath, "contains invalid JSON")
	}

	packageJson := &PackageJson{
		Name:    raw.Name,
		Type:    raw.Type,
		Main:    raw.Main,
		Engines: raw.Engines,
	}

	if len(raw.Exports) > 0 {
		exports, err := decodeExportsValue(raw.Exports)
		if err != nil {
			return nil, newResolveError(ErrInvalidPackageConfiguration, manifestPath, "has an unreadable exports field")
		}
		// A literal null is the same as an absent field.
		if exports.kind != exportsNull {
			packageJson.Exports = exports
		}
	}
	if len(raw.Imports) > 0 {
		imports, err := decodeExportsValue(raw.Imports)
		if err != nil {
			return nil, newResolveError(ErrInvalidPackageConfiguration, manifestPath, "has an unreadable imports field")
		}
		if imports.kind != exportsNull {
			packageJson.Imports = imports
		}
	}

	return packageJson, nil
}

// getPackageScope walks up from the URL's directory looking for the nearest
// package.json, stopping without a result when the walk crosses into a
// node_modules directory.
func (r *Resolver) getPackageScope(fileURL string) (string, bool) {
	dir := directoryOf(fileURL)
	for {
		if lastSegmentIs(dir, "node_modules") {
			return "", false
		}
		if r.fsys.IsFile(path.Join(dir, "package.json")) {
			return dir, true
		}
		parent := path.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
