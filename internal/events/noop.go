package events

import "context"

// NoopPublisher drops every event. It stands in when TACKS_NATS_URL is
// not set, so callers never have to nil-check the publisher.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
