package resolver

import (
	"net/url"
	"path"
	"strings"
)

// IsURL reports whether the specifier parses as an absolute URL with a
// scheme. Relative and bare specifiers have no scheme and fail this check.
func IsURL(specifier string) bool {
	parsed, err := url.Parse(specifier)
	return err == nil && parsed.Scheme != ""
}

// urlScheme returns the scheme of an absolute URL string, or "".
func urlScheme(urlStr string) string {
	if colon := strings.IndexByte(urlStr, ':'); colon != -1 {
		scheme := urlStr[:colon]
		for _, c := range scheme {
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
				return ""
			}
		}
		return strings.ToLower(scheme)
	}
	return ""
}

// pathToFileURL converts an absolute forward-slash path to a file URL
// without percent-encoding. Resolution works on raw URL strings so that
// encoded separators written in specifiers or export targets survive long
// enough to be rejected.
func pathToFileURL(filePath string) string {
	return "file://" + filePath
}

// fileURLToPath converts a file URL back to an absolute path, decoding any
// percent escapes the specifier carried.
func fileURLToPath(fileURL string) string {
	p := strings.TrimPrefix(fileURL, "file://")
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return path.Clean(p)
}

// directoryOf returns the directory a file URL lives in: the path itself
// for URLs ending in "/", otherwise the parent of the last segment.
func directoryOf(fileURL string) string {
	p := strings.TrimPrefix(fileURL, "file://")
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if strings.HasSuffix(p, "/") {
		return path.Clean(p)
	}
	return path.Dir(path.Clean(p))
}

// resolveRelativeURL resolves a relative specifier ("/x", "./x", "../x")
// against the parent URL following WHATWG URL join semantics.
func resolveRelativeURL(specifier string, parentURL string) (string, error) {
	base, err := url.Parse(parentURL)
	if err != nil {
		return "", newResolveError(ErrInvalidModuleSpecifier, parentURL, "is not a valid parent URL")
	}
	ref, err := url.Parse(specifier)
	if err != nil {
		return "", newResolveError(ErrInvalidModuleSpecifier, specifier, "")
	}
	return base.ResolveReference(ref).String(), nil
}

// ensureFileURL accepts either an absolute URL or a plain absolute path for
// the parent module location and returns a URL string.
func ensureFileURL(parent string) string {
	if IsURL(parent) {
		return parent
	}
	return pathToFileURL(parent)
}

// containsEncodedSeparator reports whether a resolved URL contains a
// percent-encoded slash or backslash, which the resolution algorithm
// rejects outright.
func containsEncodedSeparator(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c")
}

// DataURL is a parsed data: URL, split into MIME type and payload.
type DataURL struct {
	MimeType string
	Data     string
	IsBase64 bool
}

// ParseDataURL splits a data: URL into its MIME type and payload. The
// ";base64" suffix is stripped from the MIME type.
func ParseDataURL(urlStr string) (parsed DataURL, ok bool) {
	if strings.HasPrefix(urlStr, "data:") {
		if comma := strings.IndexByte(urlStr, ','); comma != -1 {
			parsed.MimeType = urlStr[len("data:"):comma]
			parsed.Data = urlStr[comma+1:]
			if strings.HasSuffix(parsed.MimeType, ";base64") {
				parsed.MimeType = strings.TrimSuffix(parsed.MimeType, ";base64")
				parsed.IsBase64 = true
			}
			ok = true
		}
	}
	return
}

// Format returns the module format implied by the MIME type, ignoring
// parameters like ";charset=utf-8". Unknown types yield FormatNone.
func (parsed DataURL) Format() FileFormat {
	mimeType := parsed.MimeType
	if semicolon := strings.IndexByte(mimeType, ';'); semicolon != -1 {
		mimeType = mimeType[:semicolon]
	}

	switch mimeType {
	case "text/javascript":
		return FormatModule
	case "application/json":
		return FormatJSON
	case "application/wasm":
		return FormatWasm
	default:
		return FormatNone
	}
}
