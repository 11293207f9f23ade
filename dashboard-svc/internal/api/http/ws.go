package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const feedWriteWait = 5 * time.Second

// Hub fans order status events out to the owners watching each restaurant.
type Hub struct {
	clients    map[int]map[*websocket.Conn]bool
	broadcast  chan domain.StatusEvent
	register   chan subscription
	unregister chan subscription
	done       chan struct{}
	mu         sync.Mutex
	logger     *zap.Logger
}

type subscription struct {
	conn         *websocket.Conn
	restaurantID int
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[int]map[*websocket.Conn]bool),
		broadcast:  make(chan domain.StatusEvent, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

var _ service.StatusPublisher = (*Hub)(nil)

// Run serves register, unregister and broadcast until ctx is done, then
// closes every connection. A hub is run once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = make(map[int]map[*websocket.Conn]bool)
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.restaurantID] == nil {
				h.clients[sub.restaurantID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.restaurantID][sub.conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.restaurantID][sub.conn]; ok {
				delete(h.clients[sub.restaurantID], sub.conn)
				sub.conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[event.RestaurantID] {
				conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
				if err := conn.WriteJSON(event); err != nil {
					h.logger.Warn("order feed write failed", zap.Int("restaurant_id", event.RestaurantID), zap.Error(err))
					conn.Close()
					delete(h.clients[event.RestaurantID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) PublishStatusChange(ctx context.Context, event domain.StatusEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribers reports how many connections watch the restaurant.
func (h *Hub) Subscribers(restaurantID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[restaurantID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) orderFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if !id.HasRestaurant() {
		http.Error(w, service.ErrRestaurantNotFound.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("order feed upgrade failed", zap.Error(err))
		return
	}

	sub := subscription{conn: conn, restaurantID: id.RestaurantID}
	select {
	case h.Feed.register <- sub:
	case <-h.Feed.done:
		conn.Close()
		return
	}
	go h.Feed.drain(sub)
}

// drain discards client frames until the connection closes.
func (h *Hub) drain(sub subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
