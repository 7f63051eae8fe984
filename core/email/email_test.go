package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/email"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}
}

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
		errMsg string
	}{
		{"valid", func(*email.SendEmailParams) {}, ""},
		{"missing recipient", func(p *email.SendEmailParams) { p.SendTo = " " }, "SendTo is required"},
		{"bad recipient", func(p *email.SendEmailParams) { p.SendTo = "not-an-address" }, "valid email address"},
		{"missing subject", func(p *email.SendEmailParams) { p.Subject = "" }, "Subject is required"},
		{"missing body", func(p *email.SendEmailParams) { p.BodyHTML = "" }, "BodyHTML is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewDesignParams(t *testing.T) {
	t.Parallel()

	root := layout.NewSection(nil, layout.NewColumn(nil,
		layout.NewText(layout.Overrides{"content": "Spring <b>sale</b>"}),
		layout.NewButton(layout.Overrides{"label": "Shop", "href": "https://shop.test"}),
	))

	p, err := email.NewDesignParams(root, "user@example.com", "Spring", "promo")
	require.NoError(t, err)
	assert.Equal(t, "promo", p.Tag)
	assert.Contains(t, p.BodyHTML, "<title>Spring</title>")
	assert.Contains(t, p.BodyHTML, "Spring <b>sale</b>")
	assert.Contains(t, p.BodyText, "Spring **sale**")
	assert.NotContains(t, p.BodyText, "<td")

	_, err = email.NewDesignParams(nil, "user@example.com", "Spring", "")
	require.ErrorIs(t, err, email.ErrInvalidParams)

	_, err = email.NewDesignParams(root, "", "Spring", "")
	require.ErrorIs(t, err, email.ErrInvalidParams)
}

func TestNewDevSender(t *testing.T) {
	t.Parallel()
	_, err := email.NewDevSender("")
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	d, err := email.NewDevSenderFromConfig(email.DevConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2024, 1, 15, 14, 30, 52, 0, time.UTC) }

	t.Run("writes html, text and metadata", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "out")
		d, err := email.NewDevSender(dir, email.WithClock(clock), email.WithLogger(logger.Discard()))
		require.NoError(t, err)

		p := validParams()
		p.BodyText = "Hi"
		p.Tag = "Welcome Mail!"
		require.NoError(t, d.SendEmail(t.Context(), p))

		base := filepath.Join(dir, "2024_01_15_143052_welcome_mail")
		html, err := os.ReadFile(base + ".html")
		require.NoError(t, err)
		assert.Equal(t, "<p>Hi</p>", string(html))

		text, err := os.ReadFile(base + ".txt")
		require.NoError(t, err)
		assert.Equal(t, "Hi", string(text))

		raw, err := os.ReadFile(base + ".json")
		require.NoError(t, err)
		var meta map[string]any
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "user@example.com", meta["send_to"])
		assert.Equal(t, "Hello", meta["subject"])
		assert.Equal(t, "2024-01-15T14:30:52Z", meta["timestamp"])
		assert.ElementsMatch(t, []any{"2024_01_15_143052_welcome_mail.html", "2024_01_15_143052_welcome_mail.txt"}, meta["files"])
	})

	t.Run("subject names the files without a tag", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		d, err := email.NewDevSender(dir, email.WithClock(clock), email.WithLogger(logger.Discard()))
		require.NoError(t, err)

		require.NoError(t, d.SendEmail(t.Context(), validParams()))
		assert.FileExists(t, filepath.Join(dir, "2024_01_15_143052_hello.html"))
		assert.NoFileExists(t, filepath.Join(dir, "2024_01_15_143052_hello.txt"))
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()
		d, err := email.NewDevSender(t.TempDir(), email.WithLogger(logger.Discard()))
		require.NoError(t, err)
		err = d.SendEmail(t.Context(), email.SendEmailParams{})
		require.ErrorIs(t, err, email.ErrInvalidParams)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		d, err := email.NewDevSender(t.TempDir(), email.WithLogger(logger.Discard()))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err = d.SendEmail(ctx, validParams())
		require.ErrorIs(t, err, email.ErrFailedToSendEmail)
		require.ErrorIs(t, err, context.Canceled)
	})
}
