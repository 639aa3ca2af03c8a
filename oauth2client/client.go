package oauth2client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/grantkit/oauth2-client-go/internal/charset"
	"github.com/grantkit/oauth2-client-go/internal/httpclient"
	"github.com/grantkit/oauth2-client-go/internal/oautherr"
)

// Config holds the provider endpoints and client credentials used to
// construct a Client.
type Config struct {
	// AuthEndpoint is where the user is redirected to authorize the
	// application.
	AuthEndpoint string
	// TokenEndpoint exchanges a code or refresh token for an access token.
	TokenEndpoint string
	// ResourceEndpoint is the base URL prepended to Request paths.
	ResourceEndpoint string
	// ClientID is the client ID as issued by the provider.
	ClientID string
	// ClientSecret is the client secret as issued by the provider. It is
	// never logged and never appears in error strings.
	ClientSecret string
	// Transport attaches the access token to outgoing resource requests.
	// Defaults to TransportQuery.
	Transport Transport
	// Parser converts response bodies into field maps. Defaults to
	// DefaultParser.
	Parser Parser
	// HTTPClient overrides the underlying http.Client. Defaults to one
	// with a 30 second timeout.
	HTTPClient *http.Client
}

// Client holds endpoint URLs, credentials, and current token state. It
// orchestrates authorization URL construction, token requests, and
// authenticated resource requests.
type Client struct {
	AuthEndpoint     string
	TokenEndpoint    string
	ResourceEndpoint string
	ClientID         string

	// AccessToken and RefreshToken are empty until a token request
	// succeeds. TokenType mirrors the provider's token_type field.
	AccessToken  string
	RefreshToken string
	TokenType    string

	// TokenExpires is the absolute token expiry as unix seconds, -1
	// until the provider reports an expires_in.
	TokenExpires int64

	// Extra holds every key of the last token response verbatim.
	// Recognized keys additionally populate the typed fields above.
	Extra map[string]string

	clientSecret string
	transport    Transport
	parser       Parser
	httpc        *httpclient.Client
}

// New constructs a Client from the given configuration, filling in the
// default transport and parser where the caller left them nil.
func New(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = TransportQuery
	}

	parser := cfg.Parser
	if parser == nil {
		parser = DefaultParser
	}

	return &Client{
		AuthEndpoint:     cfg.AuthEndpoint,
		TokenEndpoint:    cfg.TokenEndpoint,
		ResourceEndpoint: cfg.ResourceEndpoint,
		ClientID:         cfg.ClientID,
		TokenExpires:     -1,
		clientSecret:     cfg.ClientSecret,
		transport:        transport,
		parser:           parser,
		httpc:            httpclient.NewWithHTTPClient(cfg.HTTPClient),
	}
}

// AuthURIOptions carries the optional query parameters of an
// authorization request.
type AuthURIOptions struct {
	RedirectURI string
	// Scope in the format the provider expects (Facebook wants
	// comma-delimited, Google space-delimited).
	Scope string
	// State is returned to the redirect URI after authorization.
	// Generally used for CSRF protection; see GenerateState.
	State string
	// ResponseType defaults to "code".
	ResponseType string
	// Extra querystring parameters passed through to the provider.
	Extra url.Values
}

// AuthURI builds the URL for the authorization endpoint. No network
// call is made; the caller redirects the user to the returned URL.
func (c *Client) AuthURI(opts AuthURIOptions) string {
	q := url.Values{}
	for key, values := range opts.Extra {
		q[key] = append([]string(nil), values...)
	}

	q.Set("client_id", c.ClientID)

	responseType := opts.ResponseType
	if responseType == "" {
		responseType = "code"
	}
	q.Set("response_type", responseType)

	if opts.Scope != "" {
		q.Set("scope", opts.Scope)
	}
	if opts.State != "" {
		q.Set("state", opts.State)
	}
	if opts.RedirectURI != "" {
		q.Set("redirect_uri", opts.RedirectURI)
	}

	return c.AuthEndpoint + "?" + q.Encode()
}

type tokenOptions struct {
	parser      Parser
	redirectURI string
}

// TokenOption customizes a single RequestToken call.
type TokenOption func(*tokenOptions)

// WithTokenParser overrides the response parser for one token request.
func WithTokenParser(p Parser) TokenOption {
	return func(o *tokenOptions) { o.parser = p }
}

// WithRedirectURI adds a redirect_uri to the token request, required by
// providers that validate it against the authorization request.
func WithRedirectURI(uri string) TokenOption {
	return func(o *tokenOptions) { o.redirectURI = uri }
}

// RequestToken requests an access token from the token endpoint.
//
// Everything in params is form-encoded and sent; client_id and
// client_secret are merged in automatically, and grant_type defaults to
// "authorization_code" when absent. For the auth-code flow pass the
// code:
//
//	client.RequestToken(ctx, url.Values{"code": {code}})
//
// Every key of the parsed response lands in Extra; access_token,
// refresh_token and token_type also populate the typed fields, and
// expires_in is converted to an absolute expiry in TokenExpires.
func (c *Client) RequestToken(ctx context.Context, params url.Values, opts ...TokenOption) error {
	var o tokenOptions
	for _, opt := range opts {
		opt(&o)
	}

	parser := o.parser
	if parser == nil {
		parser = c.parser
	}

	form := url.Values{}
	for key, values := range params {
		form[key] = append([]string(nil), values...)
	}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.clientSecret)
	if form.Get("grant_type") == "" {
		form.Set("grant_type", "authorization_code")
	}
	if o.redirectURI != "" {
		form.Set("redirect_uri", o.redirectURI)
	}

	resp, err := c.httpc.PostForm(ctx, c.TokenEndpoint, form, nil)
	if resp != nil {
		defer func() { _ = resp.SafeClose() }()
	}
	if err != nil {
		return err
	}

	body, err := charset.Decode(resp.BodyBytes, charset.FromHeader(resp.Header))
	if err != nil {
		return oautherr.Wrap(err, oautherr.Decode, "failed to decode token response")
	}

	fields, err := parser(body)
	if err != nil {
		return oautherr.Wrap(err, oautherr.Parse, "failed to parse token response")
	}

	return c.applyToken(fields)
}

// applyToken copies every response field onto the client and converts
// expires_in (seconds from now, per RFC 6749) to an absolute expiry.
// Providers that report expiry under any other name leave TokenExpires
// untouched; callers must set it manually.
func (c *Client) applyToken(fields map[string]string) error {
	if c.Extra == nil {
		c.Extra = make(map[string]string, len(fields))
	}

	for key, value := range fields {
		c.Extra[key] = value
		switch key {
		case "access_token":
			c.AccessToken = value
		case "refresh_token":
			c.RefreshToken = value
		case "token_type":
			c.TokenType = value
		}
	}

	if v, ok := fields["expires_in"]; ok {
		seconds, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return oautherr.Wrap(err, oautherr.Parse, "expires_in is not numeric")
		}
		c.TokenExpires = time.Now().UTC().Add(time.Duration(seconds) * time.Second).Unix()
	}

	return nil
}

// Expired reports whether the token's known expiry has passed. A client
// that never learned an expiry reports false.
func (c *Client) Expired() bool {
	if c.TokenExpires < 0 {
		return false
	}
	return time.Now().UTC().Unix() >= c.TokenExpires
}

// Refresh exchanges the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, opts ...TokenOption) error {
	if c.RefreshToken == "" {
		return oautherr.New(oautherr.Precondition, "no refresh token held")
	}

	params := url.Values{}
	params.Set("refresh_token", c.RefreshToken)
	params.Set("grant_type", "refresh_token")
	return c.RequestToken(ctx, params, opts...)
}

type requestOptions struct {
	method  string
	data    url.Values
	headers http.Header
	parser  Parser
}

// RequestOption customizes a single resource request.
type RequestOption func(*requestOptions)

// WithMethod sets the HTTP method. Without it, requests default to GET,
// or POST when data is present.
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) { o.method = method }
}

// WithData sets a form payload for the resource request.
func WithData(data url.Values) RequestOption {
	return func(o *requestOptions) { o.data = data }
}

// WithHeaders merges additional headers into the resource request.
func WithHeaders(headers http.Header) RequestOption {
	return func(o *requestOptions) { o.headers = headers }
}

// WithParser overrides the response parser for one resource request.
func WithParser(p Parser) RequestOption {
	return func(o *requestOptions) { o.parser = p }
}

// buildResourceRequest enforces the token precondition and delegates to
// the transport strategy. No network I/O happens here.
func (c *Client) buildResourceRequest(path string, o *requestOptions) (*http.Request, error) {
	if c.AccessToken == "" {
		return nil, oautherr.New(oautherr.Precondition, "access token not set; call RequestToken first")
	}

	method := o.method
	if method == "" {
		method = http.MethodGet
		if len(o.data) > 0 {
			method = http.MethodPost
		}
	}

	return c.transport(c.ResourceEndpoint+path, c.AccessToken, method, o.data, o.headers)
}

// Request fetches data from the resource endpoint with the access token
// attached per the configured transport strategy. The path is appended
// to ResourceEndpoint and may carry its own querystring.
//
// The body is decoded using the response's declared charset, falling
// back to UTF-8. If decoding as text fails, the parser runs on the raw
// undecoded bytes; some providers (stackexchange, for one) like to gzip
// their responses, and the parser is the caller's hook to deal with it.
func (c *Client) Request(ctx context.Context, path string, opts ...RequestOption) (map[string]string, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	parser := o.parser
	if parser == nil {
		parser = c.parser
	}

	req, err := c.buildResourceRequest(path, &o)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(ctx, req)
	if resp != nil {
		defer func() { _ = resp.SafeClose() }()
	}
	if err != nil {
		return nil, err
	}

	body := resp.BodyBytes
	if decoded, derr := charset.Decode(body, charset.FromHeader(resp.Header)); derr == nil {
		body = decoded
	}

	fields, err := parser(body)
	if err != nil {
		return nil, oautherr.Wrap(err, oautherr.Parse, "failed to parse resource response")
	}

	return fields, nil
}

// RequestRaw is Request without body handling: the response comes back
// unread for binary or streaming payloads, whatever its status. The
// caller owns closing the body.
func (c *Client) RequestRaw(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := c.buildResourceRequest(path, &o)
	if err != nil {
		return nil, err
	}

	return c.httpc.DoRaw(ctx, req)
}
