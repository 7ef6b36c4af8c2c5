package intake

import (
	"context"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/utils"
	"go.uber.org/zap"
)

// SMTPIntake accepts mail over SMTP (typically from a fetchmail or procmail
// sink), triages each message and applies the resolved action. Unlike a
// content filter it is a terminal consumer: nothing is relayed onward.
type SMTPIntake struct {
	service         *core.TriageService
	repo            core.JobRepository
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
	listenAddr      string
	maxMessageBytes int
	applyActions    bool
	server          *smtp.Server
}

// snippetRunes is the preview length stored on each email record.
const snippetRunes = 200

// NewSMTPIntake creates a new SMTP intake surface
func NewSMTPIntake(
	service *core.TriageService,
	repo core.JobRepository,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	listenAddr string,
	maxMessageBytes int,
	applyActions bool,
) *SMTPIntake {
	return &SMTPIntake{
		service:         service,
		repo:            repo,
		logger:          logger,
		textProcessor:   textProcessor,
		listenAddr:      listenAddr,
		maxMessageBytes: maxMessageBytes,
		applyActions:    applyActions,
	}
}

// Start starts the SMTP intake server
func (f *SMTPIntake) Start() error {
	f.server = smtp.NewServer(&smtpBackend{intake: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = int64(f.maxMessageBytes)
	f.server.MaxRecipients = 5
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP intake starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP intake server
func (f *SMTPIntake) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail triages a single email and applies the resolved action when
// action application is enabled.
func (f *SMTPIntake) ProcessEmail(ctx context.Context, email core.EmailRecord) (*core.EmailJobMatch, error) {
	result, err := f.service.ProcessEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if f.applyActions {
		if err := ApplyAction(ctx, f.repo, result, f.logger); err != nil {
			f.logger.Error("Failed to apply action",
				zap.String("email_id", email.ID),
				zap.String("action", string(result.Action)),
				zap.Error(err))
		}
	}
	return result, nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake *SMTPIntake
	sender string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// AuthPlain handles PLAIN authentication (not needed for the intake)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient; the intake address is a sink
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	return nil
}

// Data handles the email data
func (s *smtpSession) Data(r io.Reader) error {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		s.intake.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	email, err := s.buildRecord(msg)
	if err != nil {
		s.intake.logger.Error("Failed to build email record", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.intake.ProcessEmail(ctx, email)
	if err != nil {
		s.intake.logger.Error("Failed to triage email",
			zap.String("email_id", email.ID),
			zap.Error(err))
		// Accepting the message despite a triage failure keeps the MTA
		// from retrying a classification that will fail the same way.
		return nil
	}

	s.intake.logger.Info("Processed email",
		zap.String("email_id", email.ID),
		zap.String("from", email.Sender),
		zap.String("stage", string(result.Classification.Stage)),
		zap.Float64("confidence", result.Classification.Confidence),
		zap.String("action", string(result.Action)))
	return nil
}

// buildRecord converts a parsed message into the EmailRecord the core
// consumes. A missing Message-ID gets a generated id; a missing or
// unparsable Date header degrades to now.
func (s *smtpSession) buildRecord(msg *mail.Message) (core.EmailRecord, error) {
	text, err := extractTextFromMessage(msg)
	if err != nil {
		return core.EmailRecord{}, err
	}

	id := strings.Trim(msg.Header.Get("Message-Id"), "<>")
	if id == "" {
		id = uuid.NewString()
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := decodeEncodedHeader(subject); err == nil {
		subject = decoded
	}

	sender := msg.Header.Get("From")
	if sender == "" {
		sender = s.sender
	}

	date, err := msg.Header.Date()
	if err != nil {
		date = time.Now()
	}

	return core.EmailRecord{
		ID:      id,
		Subject: subject,
		Sender:  sender,
		Snippet: s.intake.textProcessor.Snippet(text, snippetRunes),
		Body:    text,
		Date:    date,
	}, nil
}

// Logout handles SMTP logout (not needed for the intake)
func (s *smtpSession) Logout() error {
	return nil
}
