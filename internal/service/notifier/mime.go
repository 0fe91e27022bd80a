package notifier

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/academy-backend/internal/model/email"
)

// buildMessage renders one RFC 5322 message: a multipart/alternative body
// (text + html), wrapped in multipart/mixed when a receipt is attached.
func buildMessage(msg email.Email, host string) ([]byte, error) {
	var b strings.Builder

	fromAddr := mail.Address{Address: msg.From}
	b.WriteString(fmt.Sprintf("From: %s\r\n", fromAddr.String()))
	b.WriteString(fmt.Sprintf("To: %s\r\n", sanitizeHeader(msg.To)))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(msg.Subject))))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", randomBoundary("msg"), host))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment != nil {
		mixedBoundary := randomBoundary("mixed")
		b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixedBoundary))
		b.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
		writeAlternativeBody(&b, msg)
		if err := writeAttachmentPart(&b, *msg.Attachment, mixedBoundary); err != nil {
			return nil, err
		}
		b.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))
		return []byte(b.String()), nil
	}

	writeAlternativeBody(&b, msg)
	return []byte(b.String()), nil
}

func writeAlternativeBody(b *strings.Builder, msg email.Email) {
	altBoundary := randomBoundary("alt")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n\r\n", altBoundary))
	b.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n\r\n")
	b.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n\r\n")
	b.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))
}

func writeAttachmentPart(b *strings.Builder, att email.Attachment, boundary string) error {
	data, err := os.ReadFile(att.Path)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString(fmt.Sprintf("Content-Type: %s\r\n", detectMIMEType(att.Filename, data)))
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", att.Filename))
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(data)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return nil
}

// sanitizeHeader drops CR/LF so an untrusted value cannot terminate a
// header line and smuggle additional headers.
func sanitizeHeader(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, value)
}

func detectMIMEType(filename string, data []byte) string {
	if ext := filepath.Ext(filename); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

func randomBoundary(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
