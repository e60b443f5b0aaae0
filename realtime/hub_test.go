package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.Handle)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		_ = hub.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesSubscribedTopic(t *testing.T) {
	hub, srv := newTestServer(t)

	rooms := dial(t, srv, "?topics=rooms")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(TopicRooms, "status", 7, map[string]string{"status": "occupied"})

	require.NoError(t, rooms.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := rooms.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, TopicRooms, ev.Topic)
	assert.Equal(t, "status", ev.Action)
	assert.Equal(t, uint(7), ev.ID)
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	hub, srv := newTestServer(t)

	bookings := dial(t, srv, "?topics=bookings")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(TopicRooms, "status", 1, nil)
	hub.Publish(TopicBookings, "updated", 2, nil)

	require.NoError(t, bookings.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := bookings.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, TopicBookings, ev.Topic)
	assert.Equal(t, uint(2), ev.ID)
}

func TestHandleRejectsUnknownTopic(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws?topics=payroll")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseTopics(t *testing.T) {
	assert.Len(t, parseTopics(""), 3)
	assert.Equal(t, map[string]bool{"rooms": true, "maintenance": true}, parseTopics("Rooms, maintenance"))
	assert.Nil(t, parseTopics("rooms,unknown"))
	assert.Nil(t, parseTopics(" , "))
}
