package session

import "github.com/mcoot/scoretracker/internal/model"

// Publisher receives an event after every successful session change.
// Publish is called with the session lock held and must not block.
type Publisher interface {
	Publish(event model.Event)
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) Publish(model.Event) {}

var _ Publisher = NopPublisher{}
