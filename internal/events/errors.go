// Package events publishes run events on a NATS bus.
package events

import "errors"

var (
	ErrNotConnected     = errors.New("not connected to NATS")
	ErrConnectionFailed = errors.New("failed to connect to NATS")
	ErrPublishFailed    = errors.New("failed to publish event")
)
