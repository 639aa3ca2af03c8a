package oauth2client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Parser converts a raw response body into a flat string mapping.
type Parser func(body []byte) (map[string]string, error)

// DefaultParser attempts JSON decoding first and falls back to parsing
// the body as flat form-encoded key=value pairs, which is what older
// providers (Facebook's original Graph API, for one) return from their
// token endpoints.
func DefaultParser(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err == nil {
		fields := make(map[string]string, len(obj))
		for key, value := range obj {
			fields[key] = stringifyField(value)
		}
		return fields, nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("body is neither a JSON object nor form-encoded: %w", err)
	}

	fields := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			fields[key] = vs[0]
		}
	}
	return fields, nil
}

// stringifyField flattens a decoded JSON value. Numbers keep their wire
// form (expires_in arrives both as 3600 and as "3600" in the wild);
// nested structures keep their JSON encoding.
func stringifyField(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
