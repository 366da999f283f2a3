package sse

import (
	"context"

	"github.com/kbukum/voicenotes/host"
)

// Bridge publishes host indicator changes and notices to a Broadcaster.
type Bridge struct {
	b Broadcaster
}

// NewBridge creates a Bridge publishing to b.
func NewBridge(b Broadcaster) *Bridge {
	return &Bridge{b: b}
}

var (
	_ host.Listener = (*Bridge)(nil)
	_ host.Notifier = (*Bridge)(nil)
)

// IndicatorChanged publishes an indicator event.
func (br *Bridge) IndicatorChanged(state host.IndicatorState) {
	_ = br.b.Publish(EventTypeIndicator, state)
}

// Notify publishes a notice event.
func (br *Bridge) Notify(_ context.Context, n host.Notice) {
	_ = br.b.Publish(EventTypeNotice, n)
}
