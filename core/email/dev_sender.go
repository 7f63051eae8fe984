package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcraft/core/logger"
)

// DevConfig configures the development sender.
type DevConfig struct {
	Dir string `env:"EMAIL_DEV_DIR" envDefault:"./dev_emails"`
}

// DevSender implements EmailSender for local previews.
// Each message becomes an .html file, a .txt file when a text part exists,
// and a .json metadata file in dir.
type DevSender struct {
	dir string
	now func() time.Time
	log *slog.Logger
}

// DevOption configures a DevSender.
type DevOption func(*DevSender)

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) DevOption {
	return func(d *DevSender) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the logger reporting written files.
func WithLogger(l *slog.Logger) DevOption {
	return func(d *DevSender) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDevSender creates a sender that writes messages to dir.
func NewDevSender(dir string, opts ...DevOption) (*DevSender, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: directory is required", ErrInvalidConfig)
	}
	d := &DevSender{dir: dir, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewDevSenderFromConfig creates a DevSender from cfg.
func NewDevSenderFromConfig(cfg DevConfig, opts ...DevOption) (*DevSender, error) {
	return NewDevSender(cfg.Dir, opts...)
}

type devMetadata struct {
	Timestamp string   `json:"timestamp"`
	SendTo    string   `json:"send_to"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
	Files     []string `json:"files"`
}

// SendEmail writes params to disk. Files share a timestamped base name derived
// from the tag, or the subject when the tag is empty.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := now.Format("2006_01_02_150405") + "_" + sanitizeFilename(identifier)

	files := map[string]string{base + ".html": params.BodyHTML}
	if params.BodyText != "" {
		files[base+".txt"] = params.BodyText
	}

	meta := devMetadata{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(d.dir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrFailedToSendEmail, name, err)
		}
		meta.Files = append(meta.Files, name)
	}
	slices.Sort(meta.Files)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata: %v", ErrFailedToSendEmail, err)
	}

	d.log.InfoContext(ctx, "email saved",
		logger.Component("email"),
		slog.String("dir", d.dir),
		slog.String("name", base),
	)
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s, keeps only portable characters and caps the length.
func sanitizeFilename(s string) string {
	s = unsafeFilename.ReplaceAllString(strings.ReplaceAll(s, " ", "_"), "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return "email"
	}
	return strings.ToLower(s)
}
