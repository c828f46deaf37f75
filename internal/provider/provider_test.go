package provider

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !domain.IsDomainError(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func tokenHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"access_token":"test-access-token","token_type":"bearer"}`))
}

func TestRegistry(t *testing.T) {
	google := NewGoogle("id", "secret", "http://localhost/cb")
	registry := NewRegistry(google)

	p, err := registry.Get("google")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name() != "google" {
		t.Errorf("name = %q", p.Name())
	}

	if _, err := registry.Get("gitlab"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("unknown provider: expected %s, got %v", domain.ErrCodeInvalid, err)
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "google" {
		t.Errorf("names = %v", names)
	}
}

func TestGoogleExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-123","email":"Dev@Example.COM","name":"Dev Eloper"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogle("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.UserInfoURL = srv.URL + "/userinfo"

	identity, err := p.Exchange(context.Background(), "code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if identity.Subject != "g-123" {
		t.Errorf("subject = %q", identity.Subject)
	}
	if identity.Email != "dev@example.com" {
		t.Errorf("email = %q, want normalized", identity.Email)
	}
	if identity.Provider != "google" {
		t.Errorf("provider = %q", identity.Provider)
	}
}

func TestGoogleExchange_MissingFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"No Identifiers"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogle("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.UserInfoURL = srv.URL + "/userinfo"

	_, err := p.Exchange(context.Background(), "code")
	assertCode(t, err, domain.ErrCodeProviderRejected)
}

func TestGitHubExchange_EmailFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"octodev","name":""}`))
	})
	mux.HandleFunc("/emails", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"email":"old@example.com","primary":false,"verified":true},{"email":"Main@Example.com","primary":true,"verified":true}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGitHub("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.UserURL = srv.URL + "/user"
	p.EmailsURL = srv.URL + "/emails"

	identity, err := p.Exchange(context.Background(), "code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if identity.Subject != "42" {
		t.Errorf("subject = %q", identity.Subject)
	}
	if identity.Email != "main@example.com" {
		t.Errorf("email = %q, want primary verified", identity.Email)
	}
	if identity.FullName != "octodev" {
		t.Errorf("full name = %q, want login fallback", identity.FullName)
	}
}

func TestGitHubExchange_NoVerifiedEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"octodev"}`))
	})
	mux.HandleFunc("/emails", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"email":"unconfirmed@example.com","primary":true,"verified":false}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGitHub("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.UserURL = srv.URL + "/user"
	p.EmailsURL = srv.URL + "/emails"

	_, err := p.Exchange(context.Background(), "code")
	assertCode(t, err, domain.ErrCodeProviderRejected)
}

func TestExchange_ProviderRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"bad_verification_code"}`, http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogle("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}

	_, err := p.Exchange(context.Background(), "bad-code")
	assertCode(t, err, domain.ErrCodeProviderRejected)
}

func TestExchange_ProviderUnreachable(t *testing.T) {
	// Claim a port, then close it so the exchange hits a refused connection.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	p := NewGoogle("id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: "http://" + addr + "/token"}

	_, err = p.Exchange(context.Background(), "code")
	assertCode(t, err, domain.ErrCodeProviderUnreachable)
}
