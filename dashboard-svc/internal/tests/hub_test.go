package tests

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "kantin-dashboard/dashboard-svc/internal/api/http"
	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFeed(t *testing.T, hub *httpapi.Hub, id session.Identity) string {
	t.Helper()
	r := mux.NewRouter()
	httpapi.NewHandler(nil, nil, nil, nil, hub, nil).RegisterRoutes(r, withIdentity(id))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/orders/feed"
}

func TestOrderFeed_DeliversOwnRestaurantOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := httpapi.NewHub(nil)
	go hub.Run(ctx)

	ownURL := startFeed(t, hub, owner)
	otherURL := startFeed(t, hub, session.Identity{AccountID: "acc-9", RestaurantID: 9})

	own, _, err := websocket.DefaultDialer.Dial(ownURL, nil)
	require.NoError(t, err)
	defer own.Close()
	other, _, err := websocket.DefaultDialer.Dial(otherURL, nil)
	require.NoError(t, err)
	defer other.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(5) == 1 && hub.Subscribers(9) == 1
	}, time.Second, 10*time.Millisecond)

	event := domain.StatusEvent{
		Type:         domain.StatusChangedEvent,
		OrderID:      42,
		RestaurantID: 5,
		From:         domain.StatusReadyForPickup,
		To:           domain.StatusCompleted,
		CoinDelta:    200,
	}
	require.NoError(t, hub.PublishStatusChange(ctx, event))

	var got domain.StatusEvent
	own.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, own.ReadJSON(&got))
	assert.Equal(t, 42, got.OrderID)
	assert.Equal(t, domain.StatusCompleted, got.To)
	assert.Equal(t, 200, got.CoinDelta)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestOrderFeed_UnregistersClosedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := httpapi.NewHub(nil)
	go hub.Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial(startFeed(t, hub, owner), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers(5) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers(5) == 0 }, time.Second, 10*time.Millisecond)
}

func TestOrderFeed_ClosesConnectionsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := httpapi.NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	url := startFeed(t, hub, owner)
	live, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer live.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(5) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	tests := []struct {
		name string
		dial func(t *testing.T) *websocket.Conn
	}{
		{name: "connected before shutdown", dial: func(t *testing.T) *websocket.Conn { return live }},
		{name: "connected after shutdown", dial: func(t *testing.T) *websocket.Conn {
			late, _, err := websocket.DefaultDialer.Dial(url, nil)
			require.NoError(t, err)
			t.Cleanup(func() { late.Close() })
			return late
		}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			conn := testCase.dial(t)
			conn.SetReadDeadline(time.Now().Add(time.Second))
			_, _, err := conn.ReadMessage()
			require.Error(t, err)
			var netErr interface{ Timeout() bool }
			if errors.As(err, &netErr) {
				assert.False(t, netErr.Timeout(), "connection was left open")
			}
		})
	}

	assert.NoError(t, hub.PublishStatusChange(context.Background(), domain.StatusEvent{OrderID: 1}))
}

func TestOrderFeed_RejectsOwnerWithoutRestaurant(t *testing.T) {
	hub := httpapi.NewHub(nil)
	_, resp, err := websocket.DefaultDialer.Dial(startFeed(t, hub, session.Identity{AccountID: "acc-2"}), nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHub_PublishHonoursContext(t *testing.T) {
	hub := httpapi.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 64; i++ {
		require.NoError(t, hub.PublishStatusChange(context.Background(), domain.StatusEvent{OrderID: i}))
	}
	assert.ErrorIs(t, hub.PublishStatusChange(ctx, domain.StatusEvent{}), context.Canceled)
}
