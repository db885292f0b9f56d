package resolver

import (
	"errors"
	"fmt"
)

// ErrKind identifies one resolution failure mode. The kinds mirror the
// Node.js resolution algorithm error codes one to one.
type ErrKind int

const (
	ErrInvalidModuleSpecifier ErrKind = iota
	ErrUnsupportedDirectoryImport
	ErrModuleNotFound
	ErrPackageImportNotDefined
	ErrPackagePathNotExported
	ErrInvalidPackageTarget
	ErrInvalidPackageConfiguration
)

func ErrKindToString(kind ErrKind) string {
	switch kind {
	case ErrInvalidModuleSpecifier:
		return "InvalidModuleSpecifier"
	case ErrUnsupportedDirectoryImport:
		return "UnsupportedDirectoryImport"
	case ErrModuleNotFound:
		return "ModuleNotFound"
	case ErrPackageImportNotDefined:
		return "PackageImportNotDefined"
	case ErrPackagePathNotExported:
		return "PackagePathNotExported"
	case ErrInvalidPackageTarget:
		return "InvalidPackageTarget"
	case ErrInvalidPackageConfiguration:
		return "InvalidPackageConfiguration"
	default:
		return "Unknown"
	}
}

// ResolveError is the only error type returned by Resolve. Specifier holds
// the offending specifier, path or target depending on the kind.
type ResolveError struct {
	Kind      ErrKind
	Specifier string
	Reason    string
}

func (e *ResolveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: '%s'", ErrKindToString(e.Kind), e.Specifier)
	}
	return fmt.Sprintf("%s: '%s' %s", ErrKindToString(e.Kind), e.Specifier, e.Reason)
}

func newResolveError(kind ErrKind, specifier string, reason string) *ResolveError {
	return &ResolveError{Kind: kind, Specifier: specifier, Reason: reason}
}

// isTargetError reports whether err is an InvalidPackageTarget error. Array
// target resolution skips over these and only these.
func isTargetError(err error) bool {
	var resolveErr *ResolveError
	return errors.As(err, &resolveErr) && resolveErr.Kind == ErrInvalidPackageTarget
}
