// Package mail renders the transactional emails of the account server and
// hands them to a delivery provider.
package mail

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/samber/oops"
)

const (
	TemplateVerifyEmail    = "verify_email"
	TemplateForgotPassword = "forgot_password"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Dispatcher sends one email built from a named template and its variables.
type Dispatcher interface {
	SendMail(ctx context.Context, to, subject string, vars map[string]string, tmpl string) error
}

// Render executes the named template with vars.
func Render(name string, vars map[string]string) (string, error) {
	t := templates.Lookup(name + ".html")
	if t == nil {
		return "", oops.
			Code("MAIL_TEMPLATE_NOT_FOUND").
			With("template", name).
			Errorf("unknown mail template")
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", oops.
			Code("MAIL_TEMPLATE_RENDER").
			With("template", name).
			Wrap(err)
	}
	return buf.String(), nil
}
