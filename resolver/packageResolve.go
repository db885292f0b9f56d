package resolver

import (
	"path"
	"strings"
)

// getResolvedUrl classifies a specifier and produces an absolute URL
// string: URLs pass through, relative specifiers resolve against the
// parent, "#" specifiers go through the package imports map and everything
// else is a bare package specifier.
func (r *Resolver) getResolvedUrl(specifier string, parentURL string) (string, error) {
	switch {
	case IsURL(specifier):
		return specifier, nil
	case isRelativeSpecifier(specifier):
		return resolveRelativeURL(specifier, parentURL)
	case strings.HasPrefix(specifier, "#"):
		return r.resolvePackageImports(specifier, parentURL)
	default:
		return r.resolvePackage(specifier, parentURL)
	}
}

// parsePackageSpecifier splits a bare specifier into its package name
// (first segment, or first two for "@scope/name") and a "."-prefixed
// subpath.
func parsePackageSpecifier(specifier string) (packageName string, subpath string, err error) {
	if specifier == "" {
		return "", "", newResolveError(ErrInvalidModuleSpecifier, specifier, "is an empty string")
	}

	separatorIndex := strings.IndexByte(specifier, '/')
	if strings.HasPrefix(specifier, "@") {
		if separatorIndex == -1 {
			return "", "", newResolveError(ErrInvalidModuleSpecifier, specifier, "is missing a scoped package name")
		}
		separatorIndex = strings.IndexByte(specifier[separatorIndex+1:], '/')
		if separatorIndex != -1 {
			separatorIndex += strings.IndexByte(specifier, '/') + 1
		}
	}

	packageName = specifier
	if separatorIndex != -1 {
		packageName = specifier[:separatorIndex]
	}

	if strings.HasPrefix(packageName, ".") ||
		strings.Contains(packageName, "\\") ||
		strings.Contains(packageName, "%") {
		return "", "", newResolveError(ErrInvalidModuleSpecifier, specifier, "is not a valid package name")
	}

	subpath = "."
	if separatorIndex != -1 {
		subpath = "." + specifier[separatorIndex:]
	}
	if strings.HasSuffix(subpath, "/") {
		return "", "", newResolveError(ErrInvalidModuleSpecifier, specifier, "must not end in '/'")
	}

	return packageName, subpath, nil
}

// resolvePackage resolves a bare package specifier: builtins short-circuit
// to node: URLs, self-references resolve through the enclosing package's
// own exports, and everything else walks node_modules directories upward
// from the importing module.
func (r *Resolver) resolvePackage(specifier string, parentURL string) (string, error) {
	packageName, subpath, err := parsePackageSpecifier(specifier)
	if err != nil {
		return "", err
	}

	if IsBuiltInModule(specifier) {
		return "node:" + specifier, nil
	}

	if resolved, matched, err := r.resolveSelf(packageName, subpath, parentURL); matched {
		return resolved, err
	}

	dir := directoryOf(parentURL)
	for {
		packageDir := path.Join(dir, "node_modules", packageName)
		if r.fsys.IsDirectory(packageDir) {
			packageJson, err := r.getPackageJson(packageDir)
			if err != nil {
				return "", err
			}
			if packageJson != nil && packageJson.Exports != nil {
				return r.resolvePackageExports(packageDir, subpath, packageJson.Exports)
			}
			if subpath == "." {
				if packageJson != nil && packageJson.Main != "" {
					return pathToFileURL(path.Join(packageDir, packageJson.Main)), nil
				}
				// No main entry: the package directory itself, which the
				// caller will reject as a directory import.
				return pathToFileURL(packageDir), nil
			}
			return pathToFileURL(path.Join(packageDir, subpath)), nil
		}

		parent := path.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", newResolveError(ErrModuleNotFound, specifier, "could not be found in any node_modules directory")
}

// resolveSelf lets a package import its own exported subpaths by name. The
// match succeeds only when the nearest package scope declares exports and
// its name equals the specifier's package name.
func (r *Resolver) resolveSelf(packageName string, subpath string, parentURL string) (resolved string, matched bool, err error) {
	scopeDir, found := r.getPackageScope(parentURL)
	if !found {
		return "", false, nil
	}
	packageJson, err := r.getPackageJson(scopeDir)
	if err != nil {
		return "", true, err
	}
	if packageJson == nil || packageJson.Exports == nil || packageJson.Name != packageName {
		return "", false, nil
	}
	resolved, err = r.resolvePackageExports(scopeDir, subpath, packageJson.Exports)
	return resolved, true, err
}

// resolvePackageImports resolves a "#"-prefixed specifier against the
// imports map of the nearest enclosing package scope.
func (r *Resolver) resolvePackageImports(specifier string, parentURL string) (string, error) {
	if specifier == "#" || strings.HasPrefix(specifier, "#/") {
		return "", newResolveError(ErrInvalidModuleSpecifier, specifier, "is not a valid internal import specifier")
	}

	if scopeDir, found := r.getPackageScope(parentURL); found {
		packageJson, err := r.getPackageJson(scopeDir)
		if err != nil {
			return "", err
		}
		if packageJson != nil && packageJson.Imports != nil && packageJson.Imports.kind == exportsObject {
			resolved, err := r.resolvePackageImportsExports(specifier, packageJson.Imports, scopeDir, true)
			if err != nil {
				return "", err
			}
			if resolved != "" {
				return resolved, nil
			}
		}
	}

	return "", newResolveError(ErrPackageImportNotDefined, specifier, "is not defined in the package imports")
}
