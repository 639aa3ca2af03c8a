package oauth2client

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Transport builds an authenticated request for a resource URL. The
// built-in strategies are TransportHeader and TransportQuery; a custom
// Transport can attach the token however a provider demands.
type Transport func(rawurl, accessToken, method string, data url.Values, headers http.Header) (*http.Request, error)

// TransportHeader attaches the access token as an Authorization bearer
// header and merges in any caller-supplied headers.
func TransportHeader(rawurl, accessToken, method string, data url.Values, headers http.Header) (*http.Request, error) {
	req, err := newResourceRequest(rawurl, method, data)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	mergeHeaders(req, headers)
	return req, nil
}

// TransportQuery carries the access token in the access_token query
// parameter, preserving whatever query the URL already has. Caller
// headers are merged in; they only affect non-auth headers since the
// token travels in the URL.
func TransportQuery(rawurl, accessToken, method string, data url.Values, headers http.Header) (*http.Request, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := newResourceRequest(u.String(), method, data)
	if err != nil {
		return nil, err
	}

	mergeHeaders(req, headers)
	return req, nil
}

func newResourceRequest(rawurl, method string, data url.Values) (*http.Request, error) {
	var body io.Reader
	if len(data) > 0 {
		body = strings.NewReader(data.Encode())
	}

	req, err := http.NewRequest(method, rawurl, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

func mergeHeaders(req *http.Request, headers http.Header) {
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
}
