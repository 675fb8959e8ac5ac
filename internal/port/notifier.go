package port

import "context"

// Notifier delivers transient operator notifications, currently only upload
// failures. Delivery failures are logged and swallowed; notifications never
// gate the flow that raised them.
type Notifier interface {
	NotifyUploadFailure(ctx context.Context, toEmail, fileName, reason string) error
}
