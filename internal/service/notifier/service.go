package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillforge/academy-backend/internal/config"
	"github.com/skillforge/academy-backend/internal/model/registration"
)

// ErrDelivery marks any relay failure (auth, network, timeout). Handlers
// match it with errors.Is and keep the underlying detail out of responses.
var ErrDelivery = errors.New("mail delivery failed")

// Transport submits a fully rendered message to the relay.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// Service turns submissions into admin notification emails.
type Service struct {
	cfg       config.MailConfig
	transport Transport
}

// NewService wires a notifier to a transport.
func NewService(cfg config.MailConfig, transport Transport) *Service {
	return &Service{cfg: cfg, transport: transport}
}

// Send composes and delivers exactly one email for the submission. A nil
// receipt yields a message with zero attachments.
func (s *Service) Send(ctx context.Context, sub registration.Submission, receipt *registration.Receipt) error {
	msg, err := s.Compose(sub, receipt)
	if err != nil {
		return err
	}

	raw, err := buildMessage(msg, s.cfg.Host)
	if err != nil {
		return err
	}

	if err := s.transport.Send(ctx, msg.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
