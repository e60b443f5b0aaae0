package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"hotel-admin/cache"
	"hotel-admin/models"

	"github.com/stretchr/testify/require"
)

type published struct {
	Topic  string
	Action string
	ID     uint
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(topic, action string, id uint, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Action: action, ID: id})
}

func (p *recordingPublisher) actions(topic string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e.Action)
		}
	}
	return out
}

// memCache is a JSON round-tripping cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func mustCreateRoom(t *testing.T, svc *RoomService, number string) models.Room {
	t.Helper()
	room, err := svc.Create(context.Background(), RoomInput{
		Number:    number,
		Type:      models.RoomTypeStandard,
		Price:     120,
		Capacity:  2,
		Amenities: []string{"wifi", "tv"},
	}, "tester")
	require.NoError(t, err)
	return room
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 14, 0, 0, 0, time.UTC)
}
