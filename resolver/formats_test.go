package resolver

import (
	"testing"
)

func formatFixture() map[string]string {
	return map[string]string{
		"/esm/package.json": `{"name":"esm","type":"module"}`,
		"/esm/main.js":      "",
		"/esm/entry.mjs":    "",
		"/esm/legacy.cjs":   "",
		"/esm/data.json":    "{}",
		"/esm/bin.wasm":     "\x00asm\x01\x00\x00\x00",
		"/esm/script":       "",
		"/cjs/package.json": `{"name":"cjs"}`,
		"/cjs/main.js":      "",
		"/cjs/util.js":      "",
		"/bare/main.js":     "",
		"/bare/tool":        "",
		"/bare/wasm-tool":   "\x00asm\x01\x00\x00\x00",
	}
}

func resolveFormat(t *testing.T, r *Resolver, specifier string, parentURL string) FileFormat {
	t.Helper()
	resolution, err := r.Resolve(specifier, parentURL)
	if err != nil {
		t.Errorf("Expected no error for %s, got %v", specifier, err)
		return FormatNone
	}
	return resolution.Format
}

func TestShouldClassifyFormatsByExtension(t *testing.T) {
	r, _ := newTestResolver(formatFixture(), Options{})

	cases := []struct {
		specifier string
		parent    string
		format    FileFormat
	}{
		{"./entry.mjs", "/esm/main.js", FormatModule},
		{"./legacy.cjs", "/esm/main.js", FormatCommonJS},
		{"./data.json", "/esm/main.js", FormatJSON},
		{"./main.js", "/esm/entry.mjs", FormatModule},
		{"./util.js", "/cjs/main.js", FormatCommonJS},
	}

	for _, c := range cases {
		if format := resolveFormat(t, r, c.specifier, c.parent); format != c.format {
			t.Errorf("Expected %q format for %s, got %q", c.format, c.specifier, format)
		}
	}
}

func TestShouldDefaultJsToCommonJSWithoutScope(t *testing.T) {
	r, _ := newTestResolver(formatFixture(), Options{})

	if format := resolveFormat(t, r, "./main.js", "/bare/tool"); format != FormatCommonJS {
		t.Errorf("Expected commonjs for a .js file outside any scope, got %q", format)
	}
}

func TestShouldUseScopeTypeForExtensionlessFiles(t *testing.T) {
	r, _ := newTestResolver(formatFixture(), Options{})

	if format := resolveFormat(t, r, "./script", "/esm/main.js"); format != FormatModule {
		t.Errorf("Expected module format from the scope type, got %q", format)
	}
	if format := resolveFormat(t, r, "./tool", "/bare/main.js"); format != FormatNone {
		t.Errorf("Expected no format for an extensionless file outside any scope, got %q", format)
	}
}

func TestShouldGateWasmBehindExperimentalFlag(t *testing.T) {
	plain, _ := newTestResolver(formatFixture(), Options{})
	experimental, _ := newTestResolver(formatFixture(), Options{ExperimentalWasmModules: true})

	// Resolution succeeds either way, only the format differs.
	if format := resolveFormat(t, plain, "./bin.wasm", "/esm/main.js"); format != FormatNone {
		t.Errorf("Expected no format for .wasm without the flag, got %q", format)
	}
	if format := resolveFormat(t, experimental, "./bin.wasm", "/esm/main.js"); format != FormatWasm {
		t.Errorf("Expected wasm format with the flag, got %q", format)
	}
}

func TestShouldSniffWasmMagicInExtensionlessFiles(t *testing.T) {
	plain, _ := newTestResolver(formatFixture(), Options{})
	experimental, _ := newTestResolver(formatFixture(), Options{ExperimentalWasmModules: true})

	if format := resolveFormat(t, experimental, "./wasm-tool", "/bare/main.js"); format != FormatWasm {
		t.Errorf("Expected the magic number sniff to report wasm, got %q", format)
	}
	// Without the flag the same bytes are not even read.
	if format := resolveFormat(t, plain, "./wasm-tool", "/bare/main.js"); format != FormatNone {
		t.Errorf("Expected no format without the flag, got %q", format)
	}
	// Files without the magic bytes keep their scope type.
	if format := resolveFormat(t, experimental, "./script", "/esm/main.js"); format != FormatModule {
		t.Errorf("Expected a non-wasm extensionless file to keep the scope type, got %q", format)
	}
}
