// Package realtime pushes room, booking and maintenance changes to connected
// dashboard clients over websockets.
package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	TopicRooms       = "rooms"
	TopicBookings    = "bookings"
	TopicMaintenance = "maintenance"
)

var knownTopics = map[string]bool{
	TopicRooms:       true,
	TopicBookings:    true,
	TopicMaintenance: true,
}

const topicsKey = "topics"

// Event is the message sent to subscribers.
type Event struct {
	Topic  string    `json:"topic"`
	Action string    `json:"action"`
	ID     uint      `json:"id"`
	Data   any       `json:"data,omitempty"`
	At     time.Time `json:"at"`
}

type Hub struct {
	m *melody.Melody
}

func NewHub() *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 1024

	m.HandleConnect(func(s *melody.Session) {
		log.Debug().Str("remote", s.Request.RemoteAddr).Msg("live feed client connected")
	})
	m.HandleDisconnect(func(s *melody.Session) {
		log.Debug().Str("remote", s.Request.RemoteAddr).Msg("live feed client disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warn().Err(err).Msg("live feed session error")
	})

	return &Hub{m: m}
}

// Handle upgrades the request. ?topics=rooms,bookings limits the feed; no
// topics means every topic.
func (h *Hub) Handle(c *gin.Context) {
	topics := parseTopics(c.Query("topics"))
	if topics == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "error.unknownTopic", "message": "unknown topic"}})
		return
	}

	keys := map[string]any{topicsKey: topics}
	if uid, ok := c.Get("userID"); ok {
		keys["userID"] = uid
	}
	if err := h.m.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
	}
}

func parseTopics(raw string) map[string]bool {
	out := map[string]bool{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		for t := range knownTopics {
			out[t] = true
		}
		return out
	}
	for _, part := range strings.Split(raw, ",") {
		t := strings.ToLower(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !knownTopics[t] {
			return nil
		}
		out[t] = true
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Publish sends an event to every session subscribed to topic.
func (h *Hub) Publish(topic, action string, id uint, data any) {
	msg, err := json.Marshal(Event{Topic: topic, Action: action, ID: id, Data: data, At: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("encode live feed event")
		return
	}

	err = h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		v, ok := s.Get(topicsKey)
		if !ok {
			return false
		}
		topics, ok := v.(map[string]bool)
		return ok && topics[topic]
	})
	if err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Warn().Err(err).Str("topic", topic).Msg("broadcast live feed event")
	}
}

// Len is the number of connected sessions.
func (h *Hub) Len() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}
