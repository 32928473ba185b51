// internal/websocket/hub_test.go
package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	wstypes "labadmin-service/internal/domain/websocket"
)

func TestHubFansOutToRegisteredClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := NewClient(hub, nil, "admin-1", zap.NewNop())
	hub.register <- c

	hub.Broadcast(wstypes.EventPrivilegesUpdated, map[string]string{"email": "a@b.com"})

	select {
	case event := <-c.send:
		require.NotNil(t, event)
		assert.Equal(t, wstypes.EventPrivilegesUpdated, event.Type)
	case <-time.After(time.Second):
		t.Fatal("event never reached the client")
	}
}

func TestDetachReturnsAfterHubStopped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := NewClient(hub, nil, "admin-1", zap.NewNop())
	hub.register <- c

	cancel()
	<-hub.done

	finished := make(chan struct{})
	go func() {
		c.detach()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after the hub stopped")
	}
}

func TestShutdownClosesClientSendQueues(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := NewClient(hub, nil, "admin-1", zap.NewNop())
	hub.register <- c

	cancel()
	<-hub.done

	select {
	case _, ok := <-c.send:
		assert.False(t, ok, "send queue should be closed on shutdown")
	case <-time.After(time.Second):
		t.Fatal("send queue left open after shutdown")
	}
}
