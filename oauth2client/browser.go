package oauth2client

import (
	"github.com/pkg/browser"
)

// OpenAuthorization opens the authorization URL in the user's default
// browser. When it fails (headless hosts, odd desktop setups), callers
// should print the URL and let the user open it manually.
func OpenAuthorization(authURL string) error {
	return browser.OpenURL(authURL)
}
