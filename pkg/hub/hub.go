// Package hub implements the broadcast hub at the center of the chat relay.
//
// A Hub holds the open set of stream subscribers. Senders call Broadcast to
// fan one frame out to every live subscriber; a subscriber that has gone
// away is pruned lazily during that same broadcast pass, never by a separate
// sweep.
package hub

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/getchatd/chatd/pkg/sse"
	"github.com/getchatd/chatd/pkg/stats"
)

// sendBuffer is the per-subscriber frame queue depth. A subscriber whose
// queue is full at broadcast time is treated like a dead peer and pruned.
const sendBuffer = 64

// Subscriber is one registered stream consumer.
type Subscriber struct {
	id     string
	frames chan sse.Frame
	done   chan struct{}
	once   sync.Once
}

// ID returns the subscriber's unique identity, used in logs.
func (s *Subscriber) ID() string { return s.id }

// Frames returns the receive side of the subscriber's queue. The channel is
// closed by the hub once the subscriber has been pruned.
func (s *Subscriber) Frames() <-chan sse.Frame { return s.frames }

// Close marks the subscriber as gone. The hub removes it on the next
// Broadcast pass and closes the frame channel then. Safe to call more than
// once, and safe to call concurrently with Broadcast.
func (s *Subscriber) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscriber) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Hub is the process-wide subscriber registry. The zero value is not usable;
// construct with New.
type Hub struct {
	mu   sync.Mutex
	subs []*Subscriber
	log  *slog.Logger
	st   *stats.Stats
}

// New creates a Hub. Passing a nil stats collector disables counting.
func New(logger *slog.Logger, st *stats.Stats) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if st == nil {
		st = stats.New(io.Discard, 0)
	}
	return &Hub{log: logger, st: st}
}

// Subscribe registers a new subscriber and returns it. It never fails.
// Delivery starts with the next Broadcast call; there is no backlog.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id:     uuid.NewString(),
		frames: make(chan sse.Frame, sendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()

	h.st.Incr(stats.Subscribers, 1)
	h.log.Debug("subscriber registered", "id", sub.id, "subscribers", n)
	return sub
}

// Broadcast delivers frame to every live subscriber in registration order.
// Subscribers that have closed themselves, or whose queue cannot accept the
// frame, are pruned in the same pass and their frame channels closed. The
// call returns once every send has been attempted.
func (h *Hub) Broadcast(frame sse.Frame) {
	var pruned []*Subscriber

	h.mu.Lock()
	live := h.subs[:0]
	for _, sub := range h.subs {
		if sub.closed() {
			pruned = append(pruned, sub)
			continue
		}
		select {
		case sub.frames <- frame:
			live = append(live, sub)
		default:
			pruned = append(pruned, sub)
		}
	}
	// Drop the pruned tail so it can be collected.
	for i := len(live); i < len(h.subs); i++ {
		h.subs[i] = nil
	}
	h.subs = live
	h.mu.Unlock()

	h.st.Incr(stats.FramesDelivered, int64(len(live)))
	for _, sub := range pruned {
		close(sub.frames)
		h.st.Decr(stats.Subscribers, 1)
		h.st.Incr(stats.SubscriberPrunes, 1)
		h.st.Incr(stats.FramesDropped, 1)
		h.log.Debug("subscriber pruned", "id", sub.id)
	}
}

// Len reports the number of registered subscribers, including any that have
// closed themselves but have not been pruned yet.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
