package resolver

import (
	"path"
	"sort"
	"strings"
)

// resolvePackageExports resolves an export subpath ("." or "./x/...")
// against a package's exports value. A result is always a URL string; a
// subpath with no defined target is a PackagePathNotExported error.
func (r *Resolver) resolvePackageExports(packageDir string, subpath string, exports *ExportsValue) (string, error) {
	if exports.kind == exportsObject && !exports.allKeysRelative() && !exports.noKeysRelative() {
		return "", newResolveError(ErrInvalidPackageConfiguration, packageDir,
			"exports mixes subpath keys and condition keys")
	}

	if subpath == "." {
		var mainExport *ExportsValue
		switch exports.kind {
		case exportsString, exportsArray:
			mainExport = exports
		case exportsObject:
			if exports.noKeysRelative() {
				// Sugar form: the whole object is the "." condition map.
				mainExport = exports
			} else if dot, has := exports.lookup("."); has {
				mainExport = dot
			}
		}
		if mainExport != nil {
			resolved, err := r.resolvePackageTarget(packageDir, mainExport, "", false, false)
			if err != nil {
				return "", err
			}
			if resolved != "" {
				return resolved, nil
			}
		}
	} else if exports.kind == exportsObject && exports.allKeysRelative() {
		resolved, err := r.resolvePackageImportsExports(subpath, exports, packageDir, false)
		if err != nil {
			return "", err
		}
		if resolved != "" {
			return resolved, nil
		}
	}

	return "", newResolveError(ErrPackagePathNotExported, subpath, "is not exported from "+packageDir)
}

// resolvePackageImportsExports matches a subpath or import key against an
// exports/imports object. Exact non-wildcard matches win; otherwise keys
// containing exactly one "*" are tried in descending specificity and the
// first matching key decides the outcome.
func (r *Resolver) resolvePackageImportsExports(matchKey string, matchObj *ExportsValue, packageDir string, isImports bool) (string, error) {
	if target, has := matchObj.lookup(matchKey); has && !strings.Contains(matchKey, "*") {
		return r.resolvePackageTarget(packageDir, target, "", false, isImports)
	}

	expansionKeys := []string{}
	for i := range matchObj.entries {
		if strings.Count(matchObj.entries[i].key, "*") == 1 {
			expansionKeys = append(expansionKeys, matchObj.entries[i].key)
		}
	}
	sort.SliceStable(expansionKeys, func(i, j int) bool {
		return comparePatternKeys(expansionKeys[i], expansionKeys[j]) < 0
	})

	for _, expansionKey := range expansionKeys {
		star := strings.IndexByte(expansionKey, '*')
		patternBase := expansionKey[:star]
		patternTrailer := expansionKey[star+1:]

		if !strings.HasPrefix(matchKey, patternBase) || len(matchKey) <= len(patternBase) {
			continue
		}
		if patternTrailer != "" &&
			(!strings.HasSuffix(matchKey, patternTrailer) || len(matchKey) < len(expansionKey)) {
			continue
		}

		patternMatch := matchKey[len(patternBase) : len(matchKey)-len(patternTrailer)]
		target, _ := matchObj.lookup(expansionKey)
		return r.resolvePackageTarget(packageDir, target, patternMatch, true, isImports)
	}

	return "", nil
}

// resolvePackageTarget resolves a single exports/imports target value.
// Returning ("", nil) means "no result": the caller keeps trying other
// conditions, array elements or keys, or fails with its own error kind.
func (r *Resolver) resolvePackageTarget(packageDir string, target *ExportsValue, patternMatch string, hasPattern bool, isImports bool) (string, error) {
	switch target.kind {
	case exportsString:
		return r.resolveStringTarget(packageDir, target.str, patternMatch, hasPattern, isImports)

	case exportsObject:
		for i := range target.entries {
			key := target.entries[i].key
			if isArrayIndex(key) {
				return "", newResolveError(ErrInvalidPackageConfiguration, packageDir,
					"exports object contains numeric key '"+key+"'")
			}
			if key != "default" && !r.conditions[key] {
				continue
			}
			resolved, err := r.resolvePackageTarget(packageDir, target.entries[i].value, patternMatch, hasPattern, isImports)
			if err != nil {
				return "", err
			}
			// A null target is a deliberate exclusion, not a dead end:
			// later conditions still get their chance.
			if resolved != "" {
				return resolved, nil
			}
		}
		return "", nil

	case exportsArray:
		for i, element := range target.arr {
			resolved, err := r.resolvePackageTarget(packageDir, element, patternMatch, hasPattern, isImports)
			if err != nil {
				if isTargetError(err) && i < len(target.arr)-1 {
					continue
				}
				return "", err
			}
			if resolved != "" {
				return resolved, nil
			}
		}
		return "", nil

	case exportsNull:
		return "", nil

	default:
		return "", newResolveError(ErrInvalidPackageTarget, packageDir,
			"exports target must be a string, array, object or null")
	}
}

func (r *Resolver) resolveStringTarget(packageDir string, target string, patternMatch string, hasPattern bool, isImports bool) (string, error) {
	if !strings.HasPrefix(target, "./") {
		if isImports && !isRelativeSpecifier(target) {
			// Imports may redirect to another package or a URL entirely.
			specifier := target
			if hasPattern {
				specifier = strings.ReplaceAll(specifier, "*", patternMatch)
			}
			return r.getResolvedUrl(specifier, pathToFileURL(packageDir+"/"))
		}
		return "", newResolveError(ErrInvalidPackageTarget, target, "must start with './'")
	}

	if hasInvalidPathSegments(target[2:]) || containsEncodedSeparator(target) {
		return "", newResolveError(ErrInvalidPackageTarget, target, "contains an invalid path segment")
	}

	resolved := path.Join(packageDir, target)
	if resolved != packageDir && !strings.HasPrefix(resolved, strings.TrimSuffix(packageDir, "/")+"/") {
		return "", newResolveError(ErrInvalidPackageTarget, target, "escapes the package directory")
	}

	if hasPattern {
		if hasInvalidPathSegments(patternMatch) || containsEncodedSeparator(patternMatch) {
			return "", newResolveError(ErrInvalidModuleSpecifier, patternMatch, "is not a valid pattern match")
		}
		resolved = strings.ReplaceAll(resolved, "*", patternMatch)
	}

	return pathToFileURL(resolved), nil
}

// comparePatternKeys is the PATTERN_KEY_COMPARE total order: keys with a
// longer base (text before the "*", or the whole key without one) sort
// first; ties prefer the wildcard key, then the longer raw key.
// The no-wildcard branches cover legacy trailing-slash keys, which are rare
// but still declared by packages in the wild.
func comparePatternKeys(keyA string, keyB string) int {
	starA := strings.IndexByte(keyA, '*')
	starB := strings.IndexByte(keyB, '*')

	baseLengthA := len(keyA)
	if starA != -1 {
		baseLengthA = starA + 1
	}
	baseLengthB := len(keyB)
	if starB != -1 {
		baseLengthB = starB + 1
	}

	if baseLengthA > baseLengthB {
		return -1
	}
	if baseLengthB > baseLengthA {
		return 1
	}
	if starA == -1 {
		return 1
	}
	if starB == -1 {
		return -1
	}
	if len(keyA) > len(keyB) {
		return -1
	}
	if len(keyB) > len(keyA) {
		return 1
	}
	return 0
}
