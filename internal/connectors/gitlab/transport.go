package gitlab

import (
	"crypto/tls"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

const (
	// HeaderPrivateToken carries a personal access token.
	HeaderPrivateToken = "PRIVATE-TOKEN"

	// HeaderRequestID correlates a request with server logs.
	HeaderRequestID = "X-Request-Id"
)

// privateTokenTransport sets the PRIVATE-TOKEN header on every request.
type privateTokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *privateTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(HeaderPrivateToken, t.token)
	return t.base.RoundTrip(req)
}

// newHTTPClient builds the authenticated HTTP client for cfg.
func newHTTPClient(cfg domain.Config) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.IgnoreTLSVerification {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed instances
	}

	var rt http.RoundTripper
	switch cfg.AuthMethod {
	case domain.AuthMethodOAuth:
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   base,
		}
	default:
		rt = &privateTokenTransport{token: cfg.Token, base: base}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   cfg.RequestTimeout,
	}
}
