package oauth2client

import (
	"github.com/google/uuid"
)

// GenerateState returns an unguessable value for the state parameter of
// an authorization request. The provider echoes it back to the redirect
// URI, letting the caller reject forged callbacks.
func GenerateState() string {
	return uuid.New().String() + uuid.New().String()
}
