// Package oauth2client is a minimal OAuth 2.0 client helper. It builds
// authorization-request URLs, exchanges authorization codes or refresh
// tokens for access tokens, and issues authenticated requests to a
// resource endpoint.
//
// How the access token travels on resource requests is pluggable: the
// built-in TransportHeader strategy sends it as an Authorization bearer
// header, TransportQuery splices it into the query string, and callers
// can supply their own Transport. Response parsing is equally pluggable;
// the default parser tries JSON and falls back to form-encoded pairs.
//
// Usage:
//
//	client := oauth2client.New(oauth2client.Config{
//		AuthEndpoint:     "https://provider.example.com/oauth/authorize",
//		TokenEndpoint:    "https://provider.example.com/oauth/token",
//		ResourceEndpoint: "https://api.example.com",
//		ClientID:         "your_client_id",
//		ClientSecret:     "your_client_secret",
//		Transport:        oauth2client.TransportHeader,
//	})
//
//	// Redirect the user to authorize.
//	authURL := client.AuthURI(oauth2client.AuthURIOptions{
//		RedirectURI: "https://yourapp.example.com/callback",
//		Scope:       "read write",
//		State:       oauth2client.GenerateState(),
//	})
//
//	// Exchange the code the provider redirected back with.
//	err := client.RequestToken(ctx, url.Values{"code": {code}})
//
//	// Call the API.
//	data, err := client.Request(ctx, "/users/me")
//
// A Client is not safe for concurrent use: RequestToken and Refresh
// mutate its token fields in place.
package oauth2client
