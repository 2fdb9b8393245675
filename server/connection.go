// File: server/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection scratch memory management for an HTTP-style server. Each
// Connection owns exactly one pool.Pool for its whole lifetime: request
// scratch is allocated from the head end and discarded on Reset between
// request cycles, while a persistent connection identifier is reserved from
// the tail end. The pool's Reset unconditionally discards every tail-end
// block along with the head end, so ResetForNextRequest copies the
// identifier's bytes out before resetting and writes them back into a
// freshly reserved tail-end block afterward — the arena has no concept of
// preserving a tail-end block across Reset, so this layer provides it.
package server

import (
	"log"
	"time"

	"github.com/reqscratch/bumppool/api"
	"github.com/reqscratch/bumppool/pool"
)

// Config holds all configurable parameters for a connection's scratch pool.
type Config struct {
	PoolCapacity    int           // requested maximum size of the per-connection pool
	MapThreshold    int           // mmap-vs-heap crossover override; 0 = package default
	ConnIDSize      int           // bytes reserved from the tail end for the connection id
	RequestTimeout  time.Duration // HTTP server read and write timeout; the pool itself does not use it
	ShutdownTimeout time.Duration

	// RequireBasicAuth, when set, makes the server challenge any request
	// that lacks valid Basic Authentication credentials with a 401 and a
	// WWW-Authenticate header, instead of dispatching it to the handler.
	RequireBasicAuth bool
	// AuthRealm is the realm presented in the WWW-Authenticate challenge.
	AuthRealm string
	// AuthPreferUTF8 appends charset="UTF-8" to the challenge, per RFC 7617 §2.1.
	AuthPreferUTF8 bool
}

// DefaultConfig returns sensible defaults for a connection scratch pool.
func DefaultConfig() *Config {
	return &Config{
		PoolCapacity:    64 * 1024,
		ConnIDSize:      16,
		RequestTimeout:  5 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Connection owns one scratch pool for the lifetime of a single client
// connection across many request cycles.
type Connection struct {
	cfg    *Config
	pool   *pool.Pool
	connID api.Block
}

// NewConnection creates the connection's pool and reserves its persistent
// connection-id block from the tail end.
func NewConnection(cfg *Config) (*Connection, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p, ok := pool.Create(&pool.Config{
		Capacity:     cfg.PoolCapacity,
		MapThreshold: cfg.MapThreshold,
		DiagCapacity: 16,
	})
	if !ok {
		return nil, api.NewError(api.ErrCodeCreationFailed, "failed to create connection pool").
			WithContext("requested_capacity", cfg.PoolCapacity)
	}

	c := &Connection{cfg: cfg, pool: p}
	if cfg.ConnIDSize > 0 {
		blk, ok := p.Allocate(cfg.ConnIDSize, true)
		if !ok {
			p.Destroy()
			return nil, api.NewError(api.ErrCodeOutOfCapacity, "failed to reserve connection id").
				WithContext("conn_id_size", cfg.ConnIDSize)
		}
		c.connID = blk
	}
	return c, nil
}

// ConnID returns the connection's persistent tail-end reservation. Its
// content survives every ResetForNextRequest call: the bytes are copied out
// before the underlying pool reset and written back into the newly
// reserved block afterward.
func (c *Connection) ConnID() api.Block {
	return c.connID
}

// Pool exposes the connection's scratch pool through the package-agnostic
// contract, so handlers depend on api.ScratchPool rather than *pool.Pool.
func (c *Connection) Pool() api.ScratchPool {
	return c.pool
}

// BeginRequest allocates head-end scratch for one request cycle. On failure
// the caller should fail just the current request — the connection and its
// pool remain valid for the next reset.
func (c *Connection) BeginRequest(scratchSize int) (api.Block, error) {
	blk, ok := c.pool.Allocate(scratchSize, false)
	if !ok {
		return nil, api.NewError(api.ErrCodeOutOfCapacity, "out of scratch capacity for this request").
			WithContext("requested_bytes", scratchSize)
	}
	return blk, nil
}

// ResetForNextRequest discards all head-end scratch and every tail-end
// reservation, including the connection id's current block. Because the
// pool's Reset has no way to preserve a tail-end block, the connection id's
// bytes are saved here before the reset and copied into a freshly reserved
// tail-end block afterward, so its content — not just its size — survives
// the cycle boundary. keep/copyBytes/newSize name the single head-end block
// (if any) the caller wants preserved across the boundary, e.g. the
// unparsed remainder of a pipelined request.
func (c *Connection) ResetForNextRequest(keep api.Block, copyBytes, newSize int) api.Block {
	var savedConnID []byte
	if c.cfg.ConnIDSize > 0 && c.connID != nil {
		savedConnID = append([]byte(nil), c.connID...)
	}

	kept := c.pool.Reset(keep, copyBytes, newSize)

	if c.cfg.ConnIDSize > 0 {
		blk, ok := c.pool.Allocate(c.cfg.ConnIDSize, true)
		if !ok {
			// Capacity was sized to fit the reservation at creation time;
			// this can only happen if newSize leaves no room for it.
			log.Printf("server: could not re-reserve connection id after reset (newSize=%d)", newSize)
			c.connID = nil
		} else {
			copy(blk, savedConnID)
			c.connID = blk
		}
	}
	return kept
}

// Close destroys the connection's pool. The connection must not be used
// afterwards.
func (c *Connection) Close() {
	c.pool.Destroy()
}
