// Package events fans verification activity out to live admin viewers.
package events

import (
	"encoding/json"
	"sync"

	"github.com/rogerio-castellano/safekart/internal/models"
	"go.uber.org/zap"
)

const defaultSendBuf = 64

type Event struct {
	Type         string              `json:"type"`
	Verification models.Verification `json:"verification"`
}

// Subscriber receives encoded events on C until it is dropped or unsubscribed,
// at which point C is closed.
type Subscriber struct {
	C    <-chan []byte
	send chan []byte
}

// Hub broadcasts events to every subscriber. Publish never blocks: a subscriber
// whose buffer is full is dropped.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscriber]struct{}
	sendBuf int
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[*Subscriber]struct{}),
		sendBuf: defaultSendBuf,
		logger:  logger,
	}
}

func (h *Hub) Subscribe() *Subscriber {
	ch := make(chan []byte, h.sendBuf)
	s := &Subscriber{C: ch, send: ch}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(s)
}

// remove must be called with h.mu held.
func (h *Hub) remove(s *Subscriber) {
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
}

func (h *Hub) Publish(kind string, v models.Verification) {
	data, err := json.Marshal(Event{Type: kind, Verification: v})
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", kind), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.send <- data:
		default:
			h.logger.Warn("dropping slow live feed subscriber")
			h.remove(s)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
