package server_test

import (
	"encoding/base64"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/reqscratch/bumppool/server"
)

func TestServeHTTPDecodesBasicAuth(t *testing.T) {
	gotUser, gotPass := make(chan string, 1), make(chan string, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := server.CredentialsFromContext(r.Context())
		if !ok {
			t.Error("expected Basic Authentication credentials in context")
		}
		gotUser <- creds.Username
		gotPass <- creds.Password
		w.WriteHeader(http.StatusOK)
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	s := server.New(l.Addr().String(), &server.Config{
		PoolCapacity:   4096,
		ConnIDSize:     16,
		RequestTimeout: 5 * time.Second,
	}, handler)

	go s.Serve(l)
	defer s.Shutdown()

	req, err := http.NewRequest(http.MethodGet, "http://"+l.Addr().String()+"/", nil)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("bob:hunter2")))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	select {
	case u := <-gotUser:
		if u != "bob" {
			t.Errorf("username = %q, want bob", u)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was never invoked")
	}
	if p := <-gotPass; p != "hunter2" {
		t.Errorf("password = %q, want hunter2", p)
	}
}

func TestServeHTTPChallengesMissingCredentials(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	s := server.New(l.Addr().String(), &server.Config{
		PoolCapacity:     4096,
		ConnIDSize:       16,
		RequestTimeout:   5 * time.Second,
		RequireBasicAuth: true,
		AuthRealm:        "test-realm",
		AuthPreferUTF8:   true,
	}, handler)

	go s.Serve(l)
	defer s.Shutdown()

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	want := `Basic realm="test-realm", charset="UTF-8"`
	if got := resp.Header.Get("WWW-Authenticate"); got != want {
		t.Errorf("WWW-Authenticate = %q, want %q", got, want)
	}
	if handlerCalled {
		t.Error("handler should not run when credentials are missing and RequireBasicAuth is set")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := server.DefaultConfig()
	if cfg.PoolCapacity <= 0 {
		t.Error("DefaultConfig should set a positive PoolCapacity")
	}
	if cfg.ConnIDSize <= 0 {
		t.Error("DefaultConfig should reserve a connection id")
	}
}
