// Package stats tracks chatd process counters (connections, subscribers,
// frames) and periodically reports them as JSON for operator visibility.
package stats

import (
	"io"
	"os"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

// Counter names used across the server.
const (
	ConnsAccepted    = "conns.accepted"
	ConnsActive      = "conns.active"
	ConnErrors       = "conns.errors"
	Subscribers      = "subscribers.active"
	SubscriberPrunes = "subscribers.pruned"
	FramesPublished  = "frames.published"
	FramesDelivered  = "frames.delivered"
	FramesDropped    = "frames.dropped"
	Pings            = "pings.sent"
)

// Stats wraps a go-metrics registry with a reporting loop.
type Stats struct {
	out  io.Writer
	reg  gometrics.Registry
	tick time.Duration
	stop chan struct{}
}

// New creates a Stats reporting to out every tick. A tick of 0 disables the
// reporting loop; counters still accumulate.
func New(out io.Writer, tick time.Duration) *Stats {
	if out == nil {
		out = os.Stderr
	}
	return &Stats{
		out:  out,
		reg:  gometrics.NewRegistry(),
		tick: tick,
		stop: make(chan struct{}),
	}
}

// Incr adds i to the named counter.
func (s *Stats) Incr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, s.reg).Inc(i)
}

// Decr subtracts i from the named counter.
func (s *Stats) Decr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, s.reg).Dec(i)
}

// Count returns the current value of the named counter.
func (s *Stats) Count(name string) int64 {
	return gometrics.GetOrRegisterCounter(name, s.reg).Count()
}

// Start launches the periodic report loop. It returns immediately; call Stop
// to end the loop. With a zero tick Start is a no-op.
func (s *Stats) Start() {
	if s.tick <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(s.tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				gometrics.WriteJSONOnce(s.reg, s.out)
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the report loop and writes one final report.
func (s *Stats) Stop() {
	close(s.stop)
	gometrics.WriteJSONOnce(s.reg, s.out)
}
