// Package resolver implements the Node.js module resolution algorithm over
// a pluggable file system: bare package specifiers through node_modules
// walks and package exports maps, "#" package imports, self-references,
// relative specifiers and URLs, plus module format classification.
package resolver

import "sync"

// Resolution is the result of resolving one specifier: an absolute file
// path (or a node:/data:/foreign URL) and the module format, when one could
// be determined.
type Resolution struct {
	Path   string
	Format FileFormat
}

// Options configures a Resolver. The zero value resolves against the real
// file system with the default "node" and "import" conditions and caching
// enabled.
type Options struct {
	FileSystem FileSystem
	// Conditions is the active condition set for conditional exports, in
	// addition to the always-active "default".
	Conditions []string
	// DisableCache makes every call run the full algorithm. The cache is
	// otherwise never invalidated for the lifetime of the Resolver, even
	// when the underlying file system changes.
	DisableCache bool
	// ExperimentalWasmModules enables ".wasm" and wasm magic-number
	// classification, the equivalent of --experimental-wasm-modules.
	ExperimentalWasmModules bool
}

// DefaultConditions is the condition set used when Options.Conditions is
// empty.
var DefaultConditions = []string{"node", "import"}

// Resolver resolves module specifiers. It is safe for concurrent use.
type Resolver struct {
	fsys         FileSystem
	conditions   map[string]bool
	disableCache bool
	wasmModules  bool

	mu    sync.RWMutex
	cache map[string]Resolution
}

func New(options Options) *Resolver {
	fsys := options.FileSystem
	if fsys == nil {
		fsys = OSFileSystem{}
	}

	conditionNames := options.Conditions
	if len(conditionNames) == 0 {
		conditionNames = DefaultConditions
	}
	conditions := make(map[string]bool, len(conditionNames))
	for _, name := range conditionNames {
		conditions[name] = true
	}

	return &Resolver{
		fsys:         fsys,
		conditions:   conditions,
		disableCache: options.DisableCache,
		wasmModules:  options.ExperimentalWasmModules,
		cache:        map[string]Resolution{},
	}
}

var defaultResolver = New(Options{})

// Resolve resolves a specifier against a parent module location using the
// process-wide default resolver: real file system, default conditions,
// caching enabled.
func Resolve(specifier string, parentURL string) (Resolution, error) {
	return defaultResolver.Resolve(specifier, parentURL)
}

// Resolve resolves a module specifier relative to the importing module's
// URL (a file URL or plain absolute path) to a concrete location and
// format. Failures are always a *ResolveError.
func (r *Resolver) Resolve(specifier string, parentURL string) (Resolution, error) {
	parent := ensureFileURL(parentURL)
	cacheKey := specifier + "#" + parent

	if !r.disableCache {
		r.mu.RLock()
		cached, has := r.cache[cacheKey]
		r.mu.RUnlock()
		if has {
			return cached, nil
		}
	}

	resolution, err := r.resolveUncached(specifier, parent)
	if err != nil {
		return Resolution{}, err
	}

	if !r.disableCache {
		r.mu.Lock()
		r.cache[cacheKey] = resolution
		r.mu.Unlock()
	}
	return resolution, nil
}

func (r *Resolver) resolveUncached(specifier string, parentURL string) (Resolution, error) {
	resolved, err := r.getResolvedUrl(specifier, parentURL)
	if err != nil {
		return Resolution{}, err
	}

	if containsEncodedSeparator(resolved) {
		return Resolution{}, newResolveError(ErrInvalidModuleSpecifier, specifier,
			"resolves to a URL containing an encoded separator")
	}

	switch urlScheme(resolved) {
	case "file":
		filePath := fileURLToPath(resolved)
		if r.fsys.IsDirectory(filePath) {
			return Resolution{}, newResolveError(ErrUnsupportedDirectoryImport, specifier,
				"resolves to the directory "+filePath)
		}
		if !r.fsys.IsFile(filePath) {
			return Resolution{}, newResolveError(ErrModuleNotFound, specifier,
				"resolves to the missing file "+filePath)
		}
		format, err := r.getPackageFormat(filePath)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Path: filePath, Format: format}, nil

	case "node":
		return Resolution{Path: resolved, Format: FormatBuiltin}, nil

	case "data":
		if dataURL, ok := ParseDataURL(resolved); ok {
			return Resolution{Path: resolved, Format: dataURL.Format()}, nil
		}
		return Resolution{Path: resolved, Format: FormatNone}, nil

	default:
		// Recognized as resolvable, but the protocol tells us nothing
		// about the format.
		return Resolution{Path: resolved, Format: FormatNone}, nil
	}
}
