// Package ws serves the realtime WebSocket endpoint. Each API instance keeps the sockets it
// accepted and delivers the events published on the Redis realtime channel to them.
package ws

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"gamasa/config"
	"gamasa/infras/otel"
	chatService "gamasa/internal/domains/chat/service"
	"gamasa/shared"
	"gamasa/shared/constant"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"
	"gamasa/shared/timezone"
	"gamasa/transport/http/response"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 << 10
	sendBufferSize = 64
)

type PresencePayload struct {
	UserID   string     `json:"user_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

type Hub struct {
	chat       chatService.Chat
	presence   realtime.Presence
	publisher  realtime.Publisher
	subscriber realtime.Subscriber
	otel       otel.Otel
	cfg        *config.Config
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub(
	chat chatService.Chat,
	presence realtime.Presence,
	publisher realtime.Publisher,
	subscriber realtime.Subscriber,
	otel otel.Otel,
	cfg *config.Config,
) *Hub {
	hub := &Hub{
		chat:       chat,
		presence:   presence,
		publisher:  publisher,
		subscriber: subscriber,
		otel:       otel,
		cfg:        cfg,
		clients:    make(map[string]map[*client]struct{}),
	}

	hub.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     hub.checkOrigin,
	}

	return hub
}

// Run feeds the realtime channel into the local sockets until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	h.subscriber.Subscribe(ctx, h.Deliver)
}

// ServeWS upgrades an authenticated request and blocks until the socket closes.
// @Summary Realtime socket
// @Description Upgrades to a WebSocket. Pass the access token in the Authorization header or the token query parameter.
// @Tags Realtime
// @Param token query string false "Access token"
// @Success 101
// @Failure 401 {object} response.Error
// @Router /v1/realtime [get]
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _ := shared.UserFromContext(ctx)
	if userID == constant.Empty {
		response.WithError(w, failure.Unauthorized("Missing authorization"))

		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to upgrade websocket")

		return
	}

	c := newClient(h, userID, conn, h.limiter())

	if h.register(c) {
		h.online(ctx, userID)
	} else if err := h.presence.Touch(ctx, userID); err != nil {
		log.Error().Err(err).Msg("failed to touch presence")
	}

	log.Debug().Str("user_id", userID).Msg("websocket connected")

	go c.writePump()
	c.readPump(ctx)

	if removed, last := h.unregister(c); removed && last {
		h.offline(context.WithoutCancel(ctx), userID)
	}

	log.Debug().Str("user_id", userID).Msg("websocket disconnected")
}

// Deliver hands an envelope to every local socket of its recipients. Sockets whose buffer
// is full are dropped.
func (h *Hub) Deliver(envelope realtime.Envelope) {
	var slow []*client

	h.mu.RLock()

	for _, userID := range envelope.UserIDs {
		for c := range h.clients[userID] {
			select {
			case c.send <- envelope.Event:
			default:
				slow = append(slow, c)
			}
		}
	}

	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("user_id", c.userID).Msg("dropping slow websocket")

		if removed, last := h.unregister(c); removed && last {
			go h.offline(context.Background(), c.userID)
		}

		_ = c.conn.Close()
	}
}

// Connections returns the number of local sockets held for userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

func (h *Hub) register(c *client) (first bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sockets, ok := h.clients[c.userID]
	if !ok {
		sockets = make(map[*client]struct{})
		h.clients[c.userID] = sockets
	}

	sockets[c] = struct{}{}

	return len(sockets) == 1
}

func (h *Hub) unregister(c *client) (removed, last bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sockets := h.clients[c.userID]
	if _, ok := sockets[c]; !ok {
		return false, false
	}

	delete(sockets, c)
	close(c.send)

	if len(sockets) == 0 {
		delete(h.clients, c.userID)

		return true, true
	}

	return true, false
}

// sendTo queues data for one socket unless it has already been unregistered.
func (h *Hub) sendTo(c *client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.userID][c]; !ok {
		return
	}

	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) online(ctx context.Context, userID string) {
	if err := h.presence.Touch(ctx, userID); err != nil {
		log.Error().Err(err).Msg("failed to touch presence")
	}

	h.announce(ctx, PresencePayload{UserID: userID, Online: true})
}

func (h *Hub) offline(ctx context.Context, userID string) {
	if err := h.presence.Leave(ctx, userID); err != nil {
		log.Error().Err(err).Msg("failed to leave presence")
	}

	now := timezone.Now()

	h.announce(ctx, PresencePayload{UserID: userID, Online: false, LastSeen: &now})
}

func (h *Hub) announce(ctx context.Context, payload PresencePayload) {
	contacts, err := h.chat.Contacts(ctx, payload.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get contacts for presence")

		return
	}

	event := realtime.Event{Type: realtime.EventPresence, Payload: payload}

	if err := h.publisher.Publish(ctx, event, contacts...); err != nil {
		log.Error().Err(err).Msg("failed to publish presence")
	}
}

func (h *Hub) limiter() *rate.Limiter {
	perSecond := h.cfg.Chat.EventsPerSecond
	if perSecond <= 0 {
		perSecond = constant.DefaultEventsPerSecond
	}

	burst := h.cfg.Chat.EventsBurst
	if burst <= 0 {
		burst = constant.DefaultEventsBurst
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (h *Hub) typingTTL() int {
	if h.cfg.Chat.TypingTTLSeconds > 0 {
		return h.cfg.Chat.TypingTTLSeconds
	}

	return constant.DefaultTypingTTLSeconds
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	allowed := h.cfg.App.CORS.AllowedOrigins

	if origin == constant.Empty || len(allowed) == 0 || slices.Contains(allowed, constant.Asterix) {
		return true
	}

	return slices.Contains(allowed, origin)
}
