package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinepulse/pkg/contracts/domain"
)

func dialTestHub(t *testing.T) (*Hub, *websocket.Conn, context.CancelFunc) {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn, cancel
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestHub_WelcomeAndBroadcast(t *testing.T) {
	hub, conn, cancel := dialTestHub(t)
	defer cancel()

	welcome := readEvent(t, conn)
	assert.Equal(t, EventConnected, welcome.Type)

	hub.BroadcastCatalogReloaded(domain.CatalogInfo{RecordCount: 42, Path: "data/films.csv"})

	event := readEvent(t, conn)
	assert.Equal(t, EventCatalogReloaded, event.Type)

	data, err := json.Marshal(event.Data)
	require.NoError(t, err)
	var info domain.CatalogInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, 42, info.RecordCount)
	assert.Equal(t, "data/films.csv", info.Path)
}

func TestNewClient_WelcomeQueuedBeforeRegistration(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The welcome must already sit in the send buffer when the client is
	// handed to the hub. Once registered, the hub may close send at any
	// moment, so a later write would race a close of the same channel.
	client := hub.newClient(nil, "test")

	select {
	case payload := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventConnected, event.Type)
	default:
		t.Fatal("welcome event not queued at client construction")
	}
}

func TestHub_DropAfterImmediateUnregisterDoesNotPanic(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// A connection that dies during the handshake unregisters right after
	// registering; the welcome was queued beforehand, so the closed send
	// channel is never written again.
	client := hub.newClient(nil, "test")
	require.True(t, hub.add(client))
	hub.drop(client)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				return // hub closed the channel after unregister
			}
		case <-deadline:
			t.Fatal("hub did not close the client send channel")
		}
	}
}

func TestHub_AddAndDropAfterStopDoNotBlock(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	client := hub.newClient(nil, "test")

	finished := make(chan struct{})
	go func() {
		assert.False(t, hub.add(client))
		hub.drop(client)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("add/drop blocked on a stopped hub")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	_, conn, cancel := dialTestHub(t)

	welcome := readEvent(t, conn)
	require.Equal(t, EventConnected, welcome.Type)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return // connection closed by the hub
		}
	}
}
