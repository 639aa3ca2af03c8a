// Package charset extracts the charset a response declares in its
// Content-Type header and decodes bodies to UTF-8.
package charset

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// FromContentType returns the charset declared in a Content-Type header
// value, lowercased, or "" when none is declared.
// Example: Content-Type: text/html; charset=ISO-8859-1
func FromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// FromHeader returns the declared charset of a response header set.
func FromHeader(h http.Header) string {
	return FromContentType(h.Get("Content-Type"))
}

// Decode converts body from the named charset to UTF-8. An empty name
// defaults to UTF-8. A body that does not decode under the named charset
// is an error; callers decide whether to fall back to the raw bytes.
func Decode(body []byte, name string) ([]byte, error) {
	if name == "" || name == "utf-8" || name == "utf8" {
		if !utf8.Valid(body) {
			return nil, fmt.Errorf("body is not valid UTF-8")
		}
		return body, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q body: %w", name, err)
	}
	return decoded, nil
}
