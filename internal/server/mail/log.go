package mail

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// LogDispatcher renders the message and logs it instead of delivering it.
// It is the development default.
type LogDispatcher struct {
	log logging.Logger
}

func NewLogDispatcher(log logging.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) SendMail(ctx context.Context, to, subject string, vars map[string]string, tmpl string) error {
	body, err := Render(tmpl, vars)
	if err != nil {
		return err
	}
	d.log.Info(ctx, "mail dispatched",
		"to", to,
		"subject", subject,
		"template", tmpl,
		"link", vars["link"],
		"bytes", len(body),
	)
	return nil
}
