package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/config"
	"github.com/dmitrymomot/mailcraft/core/email"
	"github.com/dmitrymomot/mailcraft/core/htmlcodec"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
	"github.com/dmitrymomot/mailcraft/integration/email/postmark"
	"github.com/dmitrymomot/mailcraft/integration/email/smtp"
	"github.com/dmitrymomot/mailcraft/pkg/assistant"
)

// Transports accepted by EMAIL_TRANSPORT.
const (
	transportDev      = "dev"
	transportPostmark = "postmark"
	transportSMTP     = "smtp"
)

var errUnknownTransport = errors.New("unknown email transport")

type deliveryConfig struct {
	Transport string `env:"EMAIL_TRANSPORT" envDefault:"dev"`
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger

	// collaborator overrides the configured assistant; set by tests.
	collaborator assistant.Collaborator
}

func (a *app) run(ctx context.Context, opts docopt.Opts) error {
	switch {
	case flag(opts, "new"):
		return a.newTree(opts)
	case flag(opts, "render"):
		return a.render(opts)
	case flag(opts, "parse"):
		return a.parse(opts)
	case flag(opts, "assist"):
		return a.assist(ctx, opts)
	case flag(opts, "preview"):
		return a.preview(ctx, opts)
	case flag(opts, "send"):
		return a.send(ctx, opts)
	case flag(opts, "serve"):
		return a.serve(ctx, opts)
	}
	return errors.New("no command given")
}

func (a *app) newTree(opts docopt.Opts) error {
	return a.writeTree(opts, layout.NewFactory().Default())
}

func (a *app) render(opts docopt.Opts) error {
	root, err := a.readTree(str(opts, "<tree>"))
	if err != nil {
		return err
	}
	enc := htmlcodec.NewEncoder(htmlcodec.WithTitle(str(opts, "--title")))

	out := enc.Encode(root)
	if flag(opts, "--text") {
		if out, err = enc.PlainText(root); err != nil {
			return fmt.Errorf("render text: %w", err)
		}
	}
	return a.write(str(opts, "--out"), []byte(out))
}

func (a *app) parse(opts docopt.Opts) error {
	src, err := a.read(str(opts, "<page>"))
	if err != nil {
		return err
	}
	decOpts := []htmlcodec.DecoderOption{htmlcodec.WithLogger(a.log)}
	if flag(opts, "--sanitize") {
		decOpts = append(decOpts, htmlcodec.WithContentPolicy(bluemonday.UGCPolicy()))
	}
	return a.writeTree(opts, htmlcodec.NewDecoder(decOpts...).Decode(string(src)))
}

func (a *app) assist(ctx context.Context, opts docopt.Opts) error {
	root, err := a.readTree(str(opts, "<tree>"))
	if err != nil {
		return err
	}
	collab, err := a.assistant(ctx)
	if err != nil {
		return err
	}

	batch, err := collab.Send(ctx, root, str(opts, "<instruction>"))
	if err != nil {
		return err
	}
	outcome := action.Apply(root, batch.Actions)

	fmt.Fprintln(a.stderr, batch.Summary)
	if batch.Reply != "" {
		fmt.Fprintln(a.stderr, batch.Reply)
	}
	if outcome.Focused {
		a.log.InfoContext(ctx, "focus changed", logger.NodeID(outcome.Focus))
	}
	return a.writeTree(opts, outcome.Root)
}

func (a *app) assistant(ctx context.Context) (assistant.Collaborator, error) {
	if a.collaborator != nil {
		return a.collaborator, nil
	}
	var cfg assistant.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	collab, err := assistant.FromConfig(ctx, cfg, assistant.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	return collab, nil
}

func (a *app) preview(ctx context.Context, opts docopt.Opts) error {
	var cfg email.DevConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if dir := str(opts, "--dir"); dir != "" {
		cfg.Dir = dir
	}
	sender, err := email.NewDevSenderFromConfig(cfg, email.WithLogger(a.log))
	if err != nil {
		return err
	}
	return a.deliver(ctx, opts, sender)
}

func (a *app) send(ctx context.Context, opts docopt.Opts) error {
	sender, err := a.sender()
	if err != nil {
		return err
	}
	return a.deliver(ctx, opts, sender)
}

// sender builds the transport named by EMAIL_TRANSPORT.
func (a *app) sender() (email.EmailSender, error) {
	var cfg deliveryConfig
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	var (
		sender email.EmailSender
		err    error
	)
	switch strings.ToLower(cfg.Transport) {
	case transportDev:
		var dev email.DevConfig
		if err := config.Load(&dev); err != nil {
			return nil, err
		}
		sender, err = newSender(email.NewDevSenderFromConfig(dev, email.WithLogger(a.log)))
	case transportPostmark:
		var pm postmark.Config
		if err := config.Load(&pm); err != nil {
			return nil, err
		}
		sender, err = newSender(postmark.New(pm))
	case transportSMTP:
		var sc smtp.Config
		if err := config.Load(&sc); err != nil {
			return nil, err
		}
		sender, err = newSender(smtp.New(sc))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownTransport, cfg.Transport)
	}
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// newSender returns a nil interface when the constructor failed.
func newSender[S email.EmailSender](s S, err error) (email.EmailSender, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) deliver(ctx context.Context, opts docopt.Opts, sender email.EmailSender) error {
	root, err := a.readTree(str(opts, "<tree>"))
	if err != nil {
		return err
	}
	params, err := email.NewDesignParams(root, str(opts, "--to"), str(opts, "--subject"), str(opts, "--tag"))
	if err != nil {
		return err
	}
	if err := sender.SendEmail(ctx, params); err != nil {
		return err
	}
	a.log.InfoContext(ctx, "email delivered",
		logger.Component("cli"),
		slog.String("to", params.SendTo),
		logger.Count("blocks", layout.Count(root)),
	)
	return nil
}

func (a *app) readTree(path string) (*layout.Node, error) {
	data, err := a.read(path)
	if err != nil {
		return nil, err
	}
	var root layout.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("read tree %s: %w", path, err)
	}
	if root.Type != layout.Section {
		return nil, fmt.Errorf("read tree %s: root must be a section, got %q", path, root.Type)
	}
	return &root, nil
}

func (a *app) writeTree(opts docopt.Opts, root *layout.Node) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return a.write(str(opts, "--out"), append(data, '\n'))
}

func (a *app) read(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (a *app) write(path string, data []byte) error {
	if path == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func flag(opts docopt.Opts, key string) bool {
	v, _ := opts.Bool(key)
	return v
}

func str(opts docopt.Opts, key string) string {
	v, _ := opts.String(key)
	return v
}
