package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gamasa/shared/constant"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"
	"gamasa/shared/validator"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TypingRequest struct {
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}

type TypingPayload struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	IsTyping       bool   `json:"is_typing"`
	ExpiresIn      int    `json:"expires_in"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type client struct {
	hub     *Hub
	userID  string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

func newClient(hub *Hub, userID string, conn *websocket.Conn, limiter *rate.Limiter) *client {
	return &client{
		hub:     hub,
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		limiter: limiter,
	}
}

func (c *client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("websocket closed unexpectedly")
			}

			return
		}

		if !c.limiter.Allow() {
			log.Debug().Str("user_id", c.userID).Msg("websocket event dropped by limiter")

			continue
		}

		c.handle(ctx, data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) handle(ctx context.Context, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.fail("malformed event")

		return
	}

	switch msg.Type {
	case realtime.EventPing:
		if err := c.hub.presence.Touch(ctx, c.userID); err != nil {
			log.Error().Err(err).Msg("failed to touch presence")
		}

		c.reply(realtime.Event{Type: realtime.EventPong})
	case realtime.EventTyping:
		c.typing(ctx, msg.Payload)
	default:
		c.fail("unknown event type")
	}
}

func (c *client) typing(ctx context.Context, raw json.RawMessage) {
	ctx, scope := c.hub.otel.NewScope(ctx, constant.OtelRealtimeScopeName, constant.OtelRealtimeScopeName+".Typing")
	defer scope.End()

	var req TypingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.fail("malformed typing event")

		return
	}

	if err := validator.ValidateID(req.ConversationID); err != nil {
		c.fail("invalid conversation_id")

		return
	}

	participants, err := c.hub.chat.Participants(ctx, req.ConversationID, c.userID)
	if err != nil {
		scope.TraceError(err)

		message := err.Error()
		if failure.GetCode(err) >= http.StatusInternalServerError {
			message = "failed to resolve conversation"
		}

		c.fail(message)

		return
	}

	recipients := make([]string, 0, len(participants))

	for _, participant := range participants {
		if participant != c.userID {
			recipients = append(recipients, participant)
		}
	}

	event := realtime.Event{
		Type: realtime.EventTyping,
		Payload: TypingPayload{
			ConversationID: req.ConversationID,
			UserID:         c.userID,
			IsTyping:       req.IsTyping,
			ExpiresIn:      c.hub.typingTTL(),
		},
	}

	if err := c.hub.publisher.Publish(ctx, event, recipients...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to publish typing event")
	}
}

func (c *client) reply(event realtime.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal websocket reply")

		return
	}

	c.hub.sendTo(c, data)
}

func (c *client) fail(message string) {
	c.reply(realtime.Event{Type: realtime.EventError, Payload: ErrorPayload{Message: message}})
}
