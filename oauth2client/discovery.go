package oauth2client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/grantkit/oauth2-client-go/internal/httpclient"
)

// ServerMetadata is the subset of RFC 8414 authorization server
// metadata this package consumes.
type ServerMetadata struct {
	Issuer                 string   `json:"issuer"`
	AuthorizationEndpoint  string   `json:"authorization_endpoint"`
	TokenEndpoint          string   `json:"token_endpoint"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
	ResponseTypesSupported []string `json:"response_types_supported,omitempty"`
	GrantTypesSupported    []string `json:"grant_types_supported,omitempty"`
}

// wellKnownPaths are tried in order: standard OAuth 2.0 discovery
// (RFC 8414) first, OpenID Connect discovery second.
var wellKnownPaths = []string{
	"oauth-authorization-server",
	"openid-configuration",
}

// Discover fetches authorization server metadata for an issuer from its
// well-known endpoints.
func Discover(ctx context.Context, issuer string) (*ServerMetadata, error) {
	client := httpclient.New(nil)

	var lastErr error
	for _, path := range wellKnownPaths {
		wellKnownURL, err := buildWellKnownURL(issuer, path)
		if err != nil {
			return nil, err
		}

		metadata, err := fetchMetadata(ctx, client, wellKnownURL)
		if err != nil {
			lastErr = err
			continue
		}
		return metadata, nil
	}

	return nil, fmt.Errorf("no discovery endpoint answered for %s: %w", issuer, lastErr)
}

// NewFromDiscovery builds a Client whose auth and token endpoints come
// from the issuer's published metadata. Endpoints already set on cfg
// are overwritten; everything else passes through to New.
func NewFromDiscovery(ctx context.Context, issuer string, cfg Config) (*Client, error) {
	metadata, err := Discover(ctx, issuer)
	if err != nil {
		return nil, err
	}

	cfg.AuthEndpoint = metadata.AuthorizationEndpoint
	cfg.TokenEndpoint = metadata.TokenEndpoint
	return New(cfg), nil
}

func buildWellKnownURL(issuer, endpoint string) (string, error) {
	parsed, err := url.Parse(issuer)
	if err != nil {
		return "", fmt.Errorf("invalid issuer URL: %w", err)
	}
	return fmt.Sprintf("%s://%s/.well-known/%s", parsed.Scheme, parsed.Host, endpoint), nil
}

func fetchMetadata(ctx context.Context, client *httpclient.Client, metadataURL string) (*ServerMetadata, error) {
	resp, err := client.Get(ctx, metadataURL, nil)
	if resp != nil {
		defer func() { _ = resp.SafeClose() }()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata from %s: %w", metadataURL, err)
	}

	var metadata ServerMetadata
	if err := resp.JSON(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata from %s: %w", metadataURL, err)
	}

	if metadata.AuthorizationEndpoint == "" || metadata.TokenEndpoint == "" {
		return nil, fmt.Errorf("incomplete metadata from %s", metadataURL)
	}

	return &metadata, nil
}
