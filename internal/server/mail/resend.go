package mail

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/samber/oops"
)

// ResendDispatcher delivers mail through the Resend HTTP API.
type ResendDispatcher struct {
	client *resend.Client
	from   string
}

func NewResendDispatcher(apiKey, from string) *ResendDispatcher {
	return &ResendDispatcher{client: resend.NewClient(apiKey), from: from}
}

func (d *ResendDispatcher) SendMail(ctx context.Context, to, subject string, vars map[string]string, tmpl string) error {
	body, err := Render(tmpl, vars)
	if err != nil {
		return err
	}

	_, err = d.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return oops.
			Code("MAIL_RESEND_SEND").
			With("to", to).
			With("template", tmpl).
			Wrap(err)
	}
	return nil
}
