package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL   = "https://oauth.reddit.com"
)

type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

// Authenticator exchanges script-app credentials for a bearer token using the
// password grant.
type Authenticator struct {
	TokenURL   string
	APIURL     string
	UserAgent  string
	HTTPClient *http.Client
}

func NewAuthenticator(userAgent string, httpClient *http.Client) *Authenticator {
	return &Authenticator{
		TokenURL:   DefaultTokenURL,
		APIURL:     DefaultAPIURL,
		UserAgent:  userAgent,
		HTTPClient: httpClient,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*Client, error) {
	userAgent := fmt.Sprintf("%s by %s", a.UserAgent, creds.Username)
	base := &http.Client{
		Timeout:   a.baseClient().Timeout,
		Transport: &userAgentTransport{userAgent: userAgent, next: a.baseClient().Transport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	token, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("%w: HTTP %d", ErrAuth, retrieveErr.Response.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return &Client{
		httpClient: oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)),
		apiURL:     a.APIURL,
	}, nil
}

func (a *Authenticator) baseClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return next.RoundTrip(req)
}
