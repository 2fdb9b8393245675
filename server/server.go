// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server wires one Connection (and its scratch pool) to each underlying TCP
// connection, via net/http's ConnContext/ConnState hooks, and resets that
// pool between the request cycles multiplexed onto it. This is the
// illustrative "consumer pattern" of the pool: the server never inspects
// allocator internals, only the api.ScratchPool contract.
package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/reqscratch/bumppool/authhttp"
)

type connCtxKey struct{}
type credentialsCtxKey struct{}

// Server is a minimal HTTP facade that gives every TCP connection its own
// scratch pool for the lifetime of that connection.
type Server struct {
	cfg     *Config
	handler http.Handler
	httpSrv *http.Server

	// live tracks the Connection for each open TCP connection, solely so
	// onConnState can Destroy its pool when the connection closes:
	// ConnContext's context value is not reachable from ConnState.
	live sync.Map // net.Conn -> *Connection
}

// New builds a Server that allocates connection scratch per the given
// Config and dispatches decoded requests to handler.
func New(addr string, cfg *Config, handler http.Handler) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{cfg: cfg, handler: handler}
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      http.HandlerFunc(s.serveHTTP),
		ConnContext:  s.attachConnection,
		ConnState:    s.onConnState,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}
	return s
}

// ListenAndServe blocks, accepting connections until Shutdown is called.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Serve blocks serving HTTP over an already-open listener, until Shutdown
// is called. Used by tests and callers that need control over the listen
// address (e.g. an ephemeral port).
func (s *Server) Serve(l net.Listener) error {
	return s.httpSrv.Serve(l)
}

// Shutdown stops accepting new connections and waits up to
// cfg.ShutdownTimeout for in-flight requests to finish.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// attachConnection creates the scratch pool for a freshly accepted TCP
// connection and stores it in the context net/http threads through every
// request served on that connection.
func (s *Server) attachConnection(ctx context.Context, nc net.Conn) context.Context {
	c, err := NewConnection(s.cfg)
	if err != nil {
		log.Printf("server: %v; connection will run without scratch pooling", err)
		return ctx
	}
	s.live.Store(nc, c)
	return context.WithValue(ctx, connCtxKey{}, c)
}

// onConnState destroys a connection's pool once the TCP connection closes.
func (s *Server) onConnState(nc net.Conn, state http.ConnState) {
	if state != http.StateClosed && state != http.StateHijacked {
		return
	}
	if v, ok := s.live.LoadAndDelete(nc); ok {
		v.(*Connection).Close()
	}
}

// serveHTTP decodes Basic Authentication into the connection's pool if
// present, challenges the client instead of dispatching when
// cfg.RequireBasicAuth is set and no valid credentials were found, and
// otherwise dispatches to the configured handler. The connection's pool is
// reset for the next request cycle once this call returns, successfully or
// not.
func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, _ := r.Context().Value(connCtxKey{}).(*Connection)
	if conn == nil {
		// Without a pool no credentials can be decoded, so none are valid.
		if s.cfg.RequireBasicAuth {
			authhttp.QueueBasicAuthFail(w, s.cfg.AuthRealm, s.cfg.AuthPreferUTF8)
			return
		}
		s.handler.ServeHTTP(w, r)
		return
	}
	defer conn.ResetForNextRequest(nil, 0, 0)

	if _, err := conn.BeginRequest(requestScratchSize(r)); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	creds, authOK := authhttp.DecodeBasicAuth(conn.Pool(), r.Header.Get("Authorization"))
	if authOK {
		r = r.WithContext(context.WithValue(r.Context(), credentialsCtxKey{}, creds))
	} else if s.cfg.RequireBasicAuth {
		authhttp.QueueBasicAuthFail(w, s.cfg.AuthRealm, s.cfg.AuthPreferUTF8)
		return
	}

	s.handler.ServeHTTP(w, r)
}

func requestScratchSize(r *http.Request) int {
	if r.ContentLength > 0 {
		return int(r.ContentLength)
	}
	return 1024
}

// CredentialsFromContext retrieves the Basic Authentication credentials
// decoded by serveHTTP, if any were present on the request.
func CredentialsFromContext(ctx context.Context) (authhttp.Credentials, bool) {
	creds, ok := ctx.Value(credentialsCtxKey{}).(authhttp.Credentials)
	return creds, ok
}
