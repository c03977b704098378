package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/manager"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Config describes the submission server.
type Config struct {
	Addr     string
	From     string
	Username string
	Password string
	// Timeout bounds a whole delivery.
	Timeout time.Duration
}

// Sender submits mail to an SMTP relay.
type Sender struct {
	cfg    Config
	signer *DKIMSigner
	now    func() time.Time
}

// NewSender builds a sender; signer may be nil to send unsigned mail.
func NewSender(cfg Config, signer *DKIMSigner) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Sender{cfg: cfg, signer: signer, now: time.Now}
}

// SendPasswordReset mails the reset link to one recipient.
func (s *Sender) SendPasswordReset(ctx context.Context, to, link string) error {
	msg := composeReset(s.cfg.From, to, link, s.now())
	if s.signer != nil {
		signed, err := s.signer.Sign(msg)
		if err != nil {
			return err
		}
		msg = signed
	}

	var sendErr error
	completed := manager.RunWithTimeout(ctx, s.cfg.Timeout, func(context.Context) {
		sendErr = smtp.SendMail(s.cfg.Addr, s.auth(), s.cfg.From, []string{to}, bytes.NewReader(msg))
	})
	if !completed {
		logging.WarnLog("SMTP delivery timed out [%s] after %v", redact.Email(to), s.cfg.Timeout)
		return fmt.Errorf("smtp delivery to %s: %w", s.cfg.Addr, context.DeadlineExceeded)
	}
	if sendErr != nil {
		return fmt.Errorf("smtp delivery to %s: %w", s.cfg.Addr, sendErr)
	}
	return nil
}

func (s *Sender) auth() sasl.Client {
	if s.cfg.Username == "" {
		return nil
	}
	return sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
}
