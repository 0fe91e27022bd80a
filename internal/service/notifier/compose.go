package notifier

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/skillforge/academy-backend/internal/model/email"
	"github.com/skillforge/academy-backend/internal/model/registration"
)

// placeholderValue is what the registration page sends for fields the user
// left untouched. Such rows are dropped from the rendered body.
const placeholderValue = "N/A"

var htmlBodyTemplate = template.Must(template.New("registration").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2 style="color: #0b5394;">New Registration</h2>
  <table cellpadding="8" cellspacing="0" style="border-collapse: collapse;">
{{- range .Rows }}
    <tr>
      <td style="border: 1px solid #d2d6dc; font-weight: bold;">{{ .Label }}</td>
      <td style="border: 1px solid #d2d6dc;">{{ .Value }}</td>
    </tr>
{{- end }}
  </table>
</body>
</html>
`))

// Compose builds the outbound message for one submission. The Recipient
// override wins when present, otherwise the configured admin address is used.
func (s *Service) Compose(sub registration.Submission, receipt *registration.Receipt) (email.Email, error) {
	rows := presentFields(sub)

	var html strings.Builder
	if err := htmlBodyTemplate.Execute(&html, struct{ Rows []registration.Field }{rows}); err != nil {
		return email.Email{}, fmt.Errorf("render html body: %w", err)
	}

	var text strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&text, "%s: %s\n", row.Label, row.Value)
	}

	msg := email.Email{
		From:     s.cfg.From,
		To:       resolveRecipient(sub.Recipient, s.cfg.To),
		Subject:  "New Registration - " + sub.FullName,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}

	if receipt != nil {
		msg.Attachment = &email.Attachment{
			Filename: receipt.Filename,
			Path:     receipt.Path,
		}
	}

	return msg, nil
}

func presentFields(sub registration.Submission) []registration.Field {
	var rows []registration.Field
	for _, field := range sub.Fields() {
		if field.Value == "" || strings.EqualFold(field.Value, placeholderValue) {
			continue
		}
		rows = append(rows, field)
	}
	return rows
}

func resolveRecipient(override, fallback string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	return fallback
}
