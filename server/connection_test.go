package server_test

import (
	"testing"

	"github.com/reqscratch/bumppool/server"
)

func TestNewConnectionReservesConnID(t *testing.T) {
	c, err := server.NewConnection(&server.Config{PoolCapacity: 4096, ConnIDSize: 16})
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	defer c.Close()

	if len(c.ConnID()) != 16 {
		t.Errorf("len(ConnID()) = %d, want 16", len(c.ConnID()))
	}
}

func TestBeginRequestAndResetCycle(t *testing.T) {
	c, err := server.NewConnection(&server.Config{PoolCapacity: 4096, ConnIDSize: 16})
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	defer c.Close()

	copy(c.ConnID(), "conn-id-0123456")
	connID := append([]byte(nil), c.ConnID()...)

	blk, err := c.BeginRequest(256)
	if err != nil {
		t.Fatalf("BeginRequest failed: %v", err)
	}
	copy(blk, "request one scratch")

	c.ResetForNextRequest(nil, 0, 0)

	if string(c.ConnID()) != string(connID) {
		t.Errorf("connection id = %q, want %q to survive ResetForNextRequest", c.ConnID(), connID)
	}

	if _, err := c.BeginRequest(256); err != nil {
		t.Fatalf("second BeginRequest failed: %v", err)
	}
}

func TestBeginRequestFailsGracefullyWhenExhausted(t *testing.T) {
	c, err := server.NewConnection(&server.Config{PoolCapacity: 64, ConnIDSize: 16})
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	defer c.Close()

	if _, err := c.BeginRequest(1 << 20); err == nil {
		t.Error("BeginRequest should fail when the request scratch exceeds the pool")
	}

	// The connection itself remains usable for a smaller request.
	if _, err := c.BeginRequest(16); err != nil {
		t.Errorf("connection should remain usable after a failed allocation: %v", err)
	}
}
