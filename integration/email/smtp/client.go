package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcraft/core/email"
)

// Client sends designs through an SMTP server.
// Supports STARTTLS, implicit TLS and plain connections. Safe for concurrent use.
type Client struct {
	config Config
	auth   smtp.Auth
}

var _ email.EmailSender = (*Client)(nil)

// New creates an SMTP-backed email sender.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", email.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", email.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: Username is required", email.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", email.ErrInvalidConfig)
	}
	switch cfg.TLSMode {
	case TLSModeSTARTTLS, TLSModeTLS, TLSModePlain:
	default:
		return nil, fmt.Errorf("%w: TLSMode must be starttls, tls, or plain", email.ErrInvalidConfig)
	}
	if !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", email.ErrInvalidConfig)
	}
	if !isValidEmail(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", email.ErrInvalidConfig)
	}

	return &Client{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}, nil
}

// MustNewClient is New that panics on invalid config.
func MustNewClient(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail delivers params as a multipart/alternative message, or as a single
// HTML part when there is no text body. The context bounds dialing and the
// whole SMTP transaction.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	message, err := c.buildMessage(params, time.Now())
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}

	client, err := c.dial(ctx)
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	defer func() { _ = client.Close() }()

	if err := c.transact(client, params.SendTo, message); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	return nil
}

// dial connects according to the TLS mode and returns a ready client.
func (c *Client) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	tlsConfig := &tls.Config{ServerName: c.config.Host}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if c.config.TLSMode == TLSModeTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if c.config.TLSMode == TLSModeSTARTTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	return client, nil
}

func (c *Client) transact(client *smtp.Client, to string, message []byte) error {
	if err := client.Auth(c.auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(c.config.SenderEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// Some servers drop the connection right after DATA; the message is accepted by then.
	_ = client.Quit()
	return nil
}

// buildMessage renders the MIME message with headers in a fixed order.
func (c *Client) buildMessage(params email.SendEmailParams, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}

	header("From", c.config.SenderEmail)
	header("To", params.SendTo)
	header("Reply-To", c.config.SupportEmail)
	header("Subject", mime.QEncoding.Encode("utf-8", params.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%d.%s@%s>",
		now.UnixNano(),
		strings.ReplaceAll(params.Tag, " ", "_"),
		c.config.Host,
	))
	if params.Tag != "" {
		header("X-Tag", params.Tag)
	}
	header("MIME-Version", "1.0")

	if params.BodyText == "" {
		header("Content-Type", `text/html; charset="UTF-8"`)
		header("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQuoted(&buf, params.BodyHTML); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	for _, part := range []struct{ contentType, content string }{
		{`text/plain; charset="UTF-8"`, params.BodyText},
		{`text/html; charset="UTF-8"`, params.BodyHTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create MIME part: %w", err)
		}
		if err := writeQuoted(w, part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close MIME writer: %w", err)
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

func writeQuoted(w io.Writer, s string) error {
	qw := quotedprintable.NewWriter(w)
	if _, err := qw.Write([]byte(s)); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qw.Close(); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(addr string) bool {
	return emailRegex.MatchString(addr)
}
