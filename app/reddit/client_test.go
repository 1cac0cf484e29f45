package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestAuthenticator(tokenServer, apiServer *httptest.Server) *Authenticator {
	auth := NewAuthenticator("TestAgent/1.0", tokenServer.Client())
	auth.TokenURL = tokenServer.URL + "/api/v1/access_token"
	if apiServer != nil {
		auth.APIURL = apiServer.URL
	}
	return auth
}

func tokenHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("Expected basic auth with client credentials, got %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse token form: %v", err)
			return
		}
		if r.Form.Get("grant_type") != "password" || r.Form.Get("username") != "bot_owner" || r.Form.Get("password") != "hunter2" {
			t.Errorf("Unexpected token form: %v", r.Form)
		}
		if ua := r.Header.Get("User-Agent"); ua != "TestAgent/1.0 by bot_owner" {
			t.Errorf("Expected user agent 'TestAgent/1.0 by bot_owner', got '%s'", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "secret-token", "token_type": "bearer", "expires_in": 3600}`))
	}
}

var testCredentials = Credentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	Username:     "bot_owner",
	Password:     "hunter2",
}

func TestAuthenticator_Authenticate(t *testing.T) {
	tokenServer := httptest.NewServer(tokenHandler(t))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); !strings.EqualFold(auth, "Bearer secret-token") {
			t.Errorf("Expected bearer token, got '%s'", auth)
		}
		if ua := r.Header.Get("User-Agent"); ua != "TestAgent/1.0 by bot_owner" {
			t.Errorf("Expected user agent on API requests, got '%s'", ua)
		}

		switch r.URL.Path {
		case "/r/BitcoinMarkets/new.json":
			if r.URL.Query().Get("limit") != "20" {
				t.Errorf("Expected limit=20, got %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"kind": "Listing", "data": {"children": [
				{"kind": "t3", "data": {"id": "abc", "title": "[Daily Discussion] Today", "permalink": "/r/BitcoinMarkets/comments/abc/daily/", "created_utc": 1710000000}}
			]}}`))
		case "/r/BitcoinMarkets/comments/abc.json":
			if r.URL.Query().Get("raw_json") != "1" || r.URL.Query().Get("limit") != "500" {
				t.Errorf("Unexpected thread query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(threadPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	defer apiServer.Close()

	client, err := newTestAuthenticator(tokenServer, apiServer).Authenticate(context.Background(), testCredentials)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	posts, err := client.NewPosts(context.Background(), "BitcoinMarkets", 0)
	if err != nil {
		t.Fatalf("Expected no error listing posts, got: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "abc" {
		t.Fatalf("Unexpected posts: %+v", posts)
	}

	nodes, err := client.Thread(context.Background(), "BitcoinMarkets", "abc")
	if err != nil {
		t.Fatalf("Expected no error fetching thread, got: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("Expected 3 root nodes, got %d", len(nodes))
	}

	_, err = client.Thread(context.Background(), "BitcoinMarkets", "missing")
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("Expected ErrAPI for missing thread, got: %v", err)
	}
	if err.Error() != "Reddit API: HTTP 404" {
		t.Errorf("Expected \"Reddit API: HTTP 404\", got %q", err.Error())
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || !statusErr.Permanent() {
		t.Errorf("Expected a permanent status error, got: %v", err)
	}
}

func TestAuthenticator_Authenticate_Failure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Unauthorized", "error": 401}`))
	}))
	defer tokenServer.Close()

	_, err := newTestAuthenticator(tokenServer, nil).Authenticate(context.Background(), testCredentials)
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Expected ErrAuth, got: %v", err)
	}
	if err.Error() != "Auth failed: HTTP 401" {
		t.Errorf("Expected \"Auth failed: HTTP 401\", got %q", err.Error())
	}
}

func TestStatusError_Permanent(t *testing.T) {
	tests := []struct {
		status    int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		err := &StatusError{StatusCode: tt.status}
		if err.Permanent() != tt.permanent {
			t.Errorf("HTTP %d: expected permanent=%v", tt.status, tt.permanent)
		}
		if !errors.Is(err, ErrAPI) {
			t.Errorf("HTTP %d: expected error to match ErrAPI", tt.status)
		}
	}
}

func TestCredentials_Complete(t *testing.T) {
	if !testCredentials.Complete() {
		t.Error("Expected test credentials to be complete")
	}

	partial := testCredentials
	partial.Password = ""
	if partial.Complete() {
		t.Error("Expected credentials without password to be incomplete")
	}
}
