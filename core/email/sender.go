package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrymomot/mailcraft/core/htmlcodec"
	"github.com/dmitrymomot/mailcraft/core/layout"
)

// EmailSender delivers a rendered design.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams describes one outgoing message.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	BodyText string // optional text/plain alternative
	Tag      string // optional provider tag
}

// Validate checks the required fields and the recipient address.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if _, err := mail.ParseAddress(p.SendTo); err != nil {
		return fmt.Errorf("%w: SendTo must be a valid email address: %v", ErrInvalidParams, err)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

// NewDesignParams renders root into the HTML and plain-text bodies of a message.
// The subject doubles as the document title.
func NewDesignParams(root *layout.Node, sendTo, subject, tag string) (SendEmailParams, error) {
	if root == nil {
		return SendEmailParams{}, fmt.Errorf("%w: design is empty", ErrInvalidParams)
	}
	enc := htmlcodec.NewEncoder(htmlcodec.WithTitle(subject))
	text, err := enc.PlainText(root)
	if err != nil {
		return SendEmailParams{}, fmt.Errorf("%w: render text part: %v", ErrInvalidParams, err)
	}
	params := SendEmailParams{
		SendTo:   sendTo,
		Subject:  subject,
		BodyHTML: enc.Encode(root),
		BodyText: text,
		Tag:      tag,
	}
	if err := params.Validate(); err != nil {
		return SendEmailParams{}, err
	}
	return params, nil
}
