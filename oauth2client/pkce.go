package oauth2client

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
)

// PKCE holds a proof-key pair for the authorization code flow per
// RFC 7636. The challenge goes on the authorization request, the
// verifier on the token request.
type PKCE struct {
	Verifier  string
	Challenge string
}

// GeneratePKCE creates a random code verifier and its S256 challenge:
// BASE64URL(SHA256(code_verifier)).
func GeneratePKCE() (*PKCE, error) {
	// 48 random bytes encode to 64 characters, inside the 43-128 range
	// RFC 7636 allows.
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	verifier := base64.RawURLEncoding.EncodeToString(b)
	sum := sha256.Sum256([]byte(verifier))

	return &PKCE{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}

// AuthParams returns the extra authorization-request parameters
// advertising the challenge, for AuthURIOptions.Extra.
func (p *PKCE) AuthParams() url.Values {
	return url.Values{
		"code_challenge":        {p.Challenge},
		"code_challenge_method": {"S256"},
	}
}

// TokenParams returns the token-request parameters proving possession
// of the verifier, to merge into the RequestToken params.
func (p *PKCE) TokenParams() url.Values {
	return url.Values{
		"code_verifier": {p.Verifier},
	}
}
