package domain

import "context"

// Mail is one outbound message. Template names a body template known to the
// Mailer implementation; Data is interpolated into it.
type Mail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer delivers transactional mail (activation codes, reset codes, order
// confirmations). Failures are terminal for the request; nothing retries.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// MediaAsset references an object held by the external media service.
type MediaAsset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// MediaStorage uploads and deletes externally hosted images. Upload takes the
// image as a data URL or base64 payload, matching what clients send.
type MediaStorage interface {
	Upload(ctx context.Context, folder, data string) (*MediaAsset, error)
	Destroy(ctx context.Context, publicID string) error
}

// PaymentGateway creates payment intents with the external payment provider
// and returns the client secret the frontend needs to confirm the payment.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}
