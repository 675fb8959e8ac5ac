// Package noop is the default Notifier: it logs instead of delivering.
package noop

import (
	"context"
	"log"

	"opsboard/internal/port"
)

type noopNotifier struct{}

// NewNotifier creates a Notifier that only logs.
func NewNotifier() port.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyUploadFailure(_ context.Context, toEmail, fileName, reason string) error {
	log.Printf("notify(noop): upload failure for %s: file=%s reason=%s", toEmail, fileName, reason)
	return nil
}
