package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	otelMocks "gamasa/infras/otel/mocks"
	chatMocks "gamasa/internal/domains/chat/service/mocks"
	"gamasa/shared/constant"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"
	realtimeMocks "gamasa/shared/realtime/mocks"
	"gamasa/transport/ws"
)

const conversationID = "0b7e6c1a-2f3d-4e5a-8b6c-7d8e9f0a1b2c"

type fixture struct {
	chat      *chatMocks.MockChat
	presence  *realtimeMocks.MockPresence
	publisher *realtimeMocks.MockPublisher
	hub       *ws.Hub
	server    *httptest.Server

	published chan published
}

type published struct {
	event   realtime.Event
	userIDs []string
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		chat:      chatMocks.NewMockChat(ctrl),
		presence:  realtimeMocks.NewMockPresence(ctrl),
		publisher: realtimeMocks.NewMockPublisher(ctrl),
		published: make(chan published, 16),
	}

	cfg := &config.Config{}
	cfg.Chat.EventsPerSecond = 100
	cfg.Chat.EventsBurst = 100

	f.hub = ws.NewHub(f.chat, f.presence, f.publisher, realtimeMocks.NewMockSubscriber(ctrl), otelMocks.NewOtel(), cfg)

	f.presence.EXPECT().Touch(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.presence.EXPECT().Leave(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.chat.EXPECT().Contacts(gomock.Any(), gomock.Any()).Return([]string{"owner-1"}, nil).AnyTimes()
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event realtime.Event, userIDs ...string) error {
			f.published <- published{event: event, userIDs: userIDs}

			return nil
		}).AnyTimes()

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user := r.URL.Query().Get("user"); user != "" {
			ctx = context.WithValue(ctx, constant.ContextKeyUserID, user)
		}

		f.hub.ServeWS(w, r.WithContext(ctx))
	}))

	t.Cleanup(f.server.Close)

	return f
}

func (f *fixture) dial(t *testing.T, user string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?user=" + user

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn
}

func (f *fixture) next(t *testing.T, eventType string) published {
	t.Helper()

	timeout := time.After(2 * time.Second)

	for {
		select {
		case p := <-f.published:
			if p.event.Type == eventType {
				return p
			}
		case <-timeout:
			t.Fatalf("no %s event published", eventType)

			return published{}
		}
	}
}

// hangUp closes the socket and waits for the hub to announce the user offline.
func (f *fixture) hangUp(t *testing.T, conn *websocket.Conn) {
	_ = conn.Close()

	for {
		p := f.next(t, realtime.EventPresence)
		if payload, ok := p.event.Payload.(ws.PresencePayload); ok && !payload.Online {
			return
		}
	}
}

func TestHub_ServeWS_Unauthorized(t *testing.T) {
	f := newFixture(t)

	res, err := http.Get(f.server.URL)
	require.NoError(t, err)

	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestHub_ConnectAnnouncesPresence(t *testing.T) {
	f := newFixture(t)

	conn := f.dial(t, "tenant-1")

	p := f.next(t, realtime.EventPresence)
	assert.Equal(t, []string{"owner-1"}, p.userIDs)
	assert.Equal(t, ws.PresencePayload{UserID: "tenant-1", Online: true}, p.event.Payload)
	assert.Equal(t, 1, f.hub.Connections("tenant-1"))

	f.hangUp(t, conn)

	assert.Equal(t, 0, f.hub.Connections("tenant-1"))
}

func TestHub_Ping(t *testing.T) {
	f := newFixture(t)

	conn := f.dial(t, "tenant-1")
	f.next(t, realtime.EventPresence)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": realtime.EventPing}))

	var reply realtime.Event
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, realtime.EventPong, reply.Type)

	f.hangUp(t, conn)
}

func TestHub_Typing(t *testing.T) {
	t.Run("relayed to the counterpart", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().Participants(gomock.Any(), conversationID, "tenant-1").Return([]string{"tenant-1", "owner-1"}, nil)

		conn := f.dial(t, "tenant-1")
		f.next(t, realtime.EventPresence)

		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":    realtime.EventTyping,
			"payload": map[string]any{"conversation_id": conversationID, "is_typing": true},
		}))

		p := f.next(t, realtime.EventTyping)
		assert.Equal(t, []string{"owner-1"}, p.userIDs)
		assert.Equal(t, ws.TypingPayload{
			ConversationID: conversationID,
			UserID:         "tenant-1",
			IsTyping:       true,
			ExpiresIn:      constant.DefaultTypingTTLSeconds,
		}, p.event.Payload)

		f.hangUp(t, conn)
	})

	t.Run("stranger gets an error", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().Participants(gomock.Any(), conversationID, "user-9").
			Return(nil, failure.Forbidden("you are not a participant of this conversation"))

		conn := f.dial(t, "user-9")
		f.next(t, realtime.EventPresence)

		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":    realtime.EventTyping,
			"payload": map[string]any{"conversation_id": conversationID, "is_typing": true},
		}))

		var reply struct {
			Type    string          `json:"type"`
			Payload ws.ErrorPayload `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, realtime.EventError, reply.Type)
		assert.Equal(t, "you are not a participant of this conversation", reply.Payload.Message)

		f.hangUp(t, conn)
	})

	t.Run("invalid conversation id", func(t *testing.T) {
		f := newFixture(t)

		conn := f.dial(t, "tenant-1")
		f.next(t, realtime.EventPresence)

		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":    realtime.EventTyping,
			"payload": map[string]any{"conversation_id": "nope"},
		}))

		var reply struct {
			Type    string          `json:"type"`
			Payload ws.ErrorPayload `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, "invalid conversation_id", reply.Payload.Message)

		f.hangUp(t, conn)
	})
}

func TestHub_Deliver(t *testing.T) {
	f := newFixture(t)

	conn := f.dial(t, "tenant-1")
	f.next(t, realtime.EventPresence)

	f.hub.Deliver(realtime.Envelope{UserIDs: []string{"owner-1"}, Event: []byte(`{"type":"message.new","payload":"other"}`)})
	f.hub.Deliver(realtime.Envelope{UserIDs: []string{"tenant-1"}, Event: []byte(`{"type":"message.new","payload":"mine"}`)})

	var event struct {
		Type    string `json:"type"`
		Payload string `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, realtime.EventMessageNew, event.Type)
	assert.Equal(t, "mine", event.Payload)

	f.hangUp(t, conn)
}
