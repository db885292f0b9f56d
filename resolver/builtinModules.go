package resolver

import "strings"

// builtInModules lists the Node.js core modules by top-level name. Subpath
// builtins like "fs/promises" are matched on the segment before the first
// slash, private modules starting with "_" are excluded.
//
// To regenerate:
//   node -p "[...require('module').builtinModules].filter(m => !m.startsWith('_') && !m.includes('/')).sort().join('\n')"
var builtInModules = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}

// IsBuiltInModule reports whether the specifier names a Node.js core module,
// with or without the "node:" prefix and including subpaths like
// "fs/promises".
func IsBuiltInModule(specifier string) bool {
	specifier = strings.TrimPrefix(specifier, "node:")
	if slash := strings.IndexByte(specifier, '/'); slash != -1 {
		return builtInModules[specifier[:slash]]
	}
	return builtInModules[specifier]
}
