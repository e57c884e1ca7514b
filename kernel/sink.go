package kernel

import "log"

// ProgressSink is the injected sink capability the original tool's
// System.out-driven progress bar becomes (§9): a narrow interface the
// dispatcher calls once per popped event, purely for observation. No
// sink implementation is allowed to affect simulated state; the
// dispatcher never inspects a sink's return value because it has none.
type ProgressSink interface {
	OnEvent(popped, total int)
}

// NoopSink discards every call. It is the default sink so headless runs
// pay nothing for progress reporting.
type NoopSink struct{}

func (NoopSink) OnEvent(popped, total int) {}

// ConsoleSink logs progress through an injected *log.Logger, mirroring
// the teacher's own log.Printf call sites rather than writing to a bare
// global logger.
type ConsoleSink struct {
	Logger *log.Logger
	Every  int // log once every Every events; 0 means every event
}

func (c ConsoleSink) OnEvent(popped, total int) {
	if c.Logger == nil {
		return
	}
	every := c.Every
	if every <= 0 {
		every = 1
	}
	if popped%every == 0 {
		if total > 0 {
			c.Logger.Printf("progress: %d/%d events", popped, total)
		} else {
			c.Logger.Printf("progress: %d events", popped)
		}
	}
}
