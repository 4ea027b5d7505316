package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendTransport delivers mail through the Resend transactional-email API.
type ResendTransport struct {
	client   *resend.Client
	from     string
	fromName string
}

func NewResendTransport(apiKey, from, fromName string) *ResendTransport {
	return &ResendTransport{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (t *ResendTransport) Deliver(ctx context.Context, to, subject, body string) error {
	_, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", t.fromName, t.from),
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	return nil
}
