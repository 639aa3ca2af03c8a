package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/grantkit/oauth2-client-go/oauth2client"
)

func main() {
	var issuer string
	var authEndpoint string
	var tokenEndpoint string
	var resourceEndpoint string
	var clientID string
	var clientSecret string
	var scope string
	var transportMode string
	var callbackPort int
	var resourcePath string
	var usePKCE bool

	flag.StringVar(&issuer, "issuer", "", "Issuer URL for well-known endpoint discovery (alternative to -auth/-token)")
	flag.StringVar(&authEndpoint, "auth", "", "Authorization endpoint URL")
	flag.StringVar(&tokenEndpoint, "token", "", "Token endpoint URL")
	flag.StringVar(&resourceEndpoint, "resource", "", "Resource endpoint base URL")
	flag.StringVar(&clientID, "client-id", "", "OAuth client ID")
	flag.StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	flag.StringVar(&scope, "scope", "", "Scope parameter, in the provider's expected format")
	flag.StringVar(&transportMode, "transport", "header", "Token transport: header, query")
	flag.IntVar(&callbackPort, "port", 8000, "Base port for the local callback server")
	flag.StringVar(&resourcePath, "path", "", "Resource path to fetch after authorization")
	flag.BoolVar(&usePKCE, "pkce", false, "Send PKCE parameters with the authorization request")
	flag.Parse()

	if clientID == "" || (issuer == "" && (authEndpoint == "" || tokenEndpoint == "")) {
		fmt.Println("Usage: oauth2-cli -client-id <id> [-client-secret <secret>] (-issuer <url> | -auth <url> -token <url>) [-resource <url>] [-scope <scope>] [-transport header|query] [-pkce] [-path /me]")
		os.Exit(1)
	}

	var transport oauth2client.Transport
	switch transportMode {
	case "header":
		transport = oauth2client.TransportHeader
	case "query":
		transport = oauth2client.TransportQuery
	default:
		log.Fatalf("Error: Invalid transport '%s'. Must be one of: header, query", transportMode)
	}

	ctx := context.Background()

	cfg := oauth2client.Config{
		AuthEndpoint:     authEndpoint,
		TokenEndpoint:    tokenEndpoint,
		ResourceEndpoint: resourceEndpoint,
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		Transport:        transport,
	}

	var client *oauth2client.Client
	var err error
	if issuer != "" {
		client, err = oauth2client.NewFromDiscovery(ctx, issuer, cfg)
		if err != nil {
			log.Fatalf("Discovery failed: %v", err)
		}
		log.Printf("Discovered endpoints for %s", issuer)
	} else {
		client = oauth2client.New(cfg)
	}

	state := oauth2client.GenerateState()

	callback, err := oauth2client.StartCallbackServer(oauth2client.CallbackServerOptions{
		Port:  callbackPort,
		State: state,
	})
	if err != nil {
		log.Fatalf("Failed to start callback server: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = callback.Shutdown(shutdownCtx)
	}()

	authOpts := oauth2client.AuthURIOptions{
		RedirectURI: callback.RedirectURI(),
		Scope:       scope,
		State:       state,
	}

	var pkce *oauth2client.PKCE
	if usePKCE {
		pkce, err = oauth2client.GeneratePKCE()
		if err != nil {
			log.Fatalf("Failed to generate PKCE parameters: %v", err)
		}
		authOpts.Extra = pkce.AuthParams()
	}

	authURL := client.AuthURI(authOpts)

	log.Println("Please authorize access in your browser at:", authURL)
	if err := oauth2client.OpenAuthorization(authURL); err != nil {
		log.Println("Could not open browser automatically. Please open the URL manually.")
	}

	code, err := callback.WaitForCode(5 * time.Minute)
	if err != nil {
		log.Fatalf("Authorization failed: %v", err)
	}

	params := url.Values{"code": {code}}
	if pkce != nil {
		for key, values := range pkce.TokenParams() {
			params[key] = values
		}
	}

	if err := client.RequestToken(ctx, params, oauth2client.WithRedirectURI(callback.RedirectURI())); err != nil {
		log.Fatalf("Token exchange failed: %v", err)
	}

	log.Printf("Token acquired (type %q)", client.TokenType)
	if client.TokenExpires >= 0 {
		log.Printf("Token expires at %s", time.Unix(client.TokenExpires, 0).UTC().Format(time.RFC3339))
	}

	if resourcePath != "" {
		data, err := client.Request(ctx, resourcePath)
		if err != nil {
			log.Fatalf("Resource request failed: %v", err)
		}
		for key, value := range data {
			fmt.Printf("%s: %s\n", key, value)
		}
	}
}
