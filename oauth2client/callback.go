package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CallbackServerOptions configures the local redirect listener.
type CallbackServerOptions struct {
	// Port is the base port to probe from. Defaults to 8000.
	Port int
	// Path is the redirect path. Defaults to "/callback".
	Path string
	// State, when set, is required to match the state query parameter of
	// the provider redirect; mismatches are rejected.
	State string
}

// CallbackServer is a loopback HTTP listener that captures the
// authorization code the provider delivers to the redirect URI.
type CallbackServer struct {
	srv      *http.Server
	port     int
	path     string
	state    string
	codeChan chan string
}

const callbackSuccessPage = `
<!DOCTYPE html>
<html>
<head>
	<title>Authorization Successful</title>
	<style>
		body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
		.success { color: #4CAF50; }
		.container { max-width: 600px; margin: 0 auto; }
	</style>
</head>
<body>
	<div class="container">
		<h1 class="success">Authorization Successful!</h1>
		<p>You can now close this window and return to the application.</p>
	</div>
</body>
</html>
`

// StartCallbackServer binds a loopback listener, probing up to 100
// ports from the configured base, and serves the redirect path until
// Shutdown.
func StartCallbackServer(opts CallbackServerOptions) (*CallbackServer, error) {
	port := opts.Port
	if port <= 0 {
		port = 8000
	}
	path := opts.Path
	if path == "" {
		path = "/callback"
	}

	s := &CallbackServer{
		path:     path,
		state:    opts.State,
		codeChan: make(chan string, 1),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, s.handleCallback)

	var listener net.Listener
	var err error
	for i := 0; i < 100; i++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port+i)
		listener, err = net.Listen("tcp", addr)
		if err == nil {
			s.port = port + i
			break
		}
	}
	if listener == nil {
		return nil, fmt.Errorf("could not find an available port for callback server: %w", err)
	}

	s.srv = &http.Server{Handler: router}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Callback server error: %v", err)
		}
	}()

	return s, nil
}

func (s *CallbackServer) handleCallback(c *gin.Context) {
	if errCode := c.Query("error"); errCode != "" {
		c.String(http.StatusBadRequest, "authorization failed: %s", errCode)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "authorization code not found")
		return
	}

	if s.state != "" && c.Query("state") != s.state {
		c.String(http.StatusBadRequest, "state mismatch")
		return
	}

	select {
	case s.codeChan <- code:
		c.Header("Content-Type", "text/html")
		c.String(http.StatusOK, callbackSuccessPage)
	default:
		c.String(http.StatusBadRequest, "authorization flow not in progress")
	}
}

// Port returns the port the server actually bound.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect_uri to hand to the provider.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}

// WaitForCode blocks until the provider redirects back with a code or
// the timeout elapses.
func (s *CallbackServer) WaitForCode(timeout time.Duration) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case <-time.After(timeout):
		return "", errors.New("timeout waiting for authorization code")
	}
}

// Shutdown stops the listener.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
