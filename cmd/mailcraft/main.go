// Command mailcraft renders, parses, edits and delivers email layout trees.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"

	"github.com/dmitrymomot/mailcraft/core/config"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

const version = "0.1.0"

const usage = `Mailcraft email layout tool.

Trees are read and written as JSON. Use - as a path to read stdin.

Usage:
    mailcraft new [--out=<file>]
    mailcraft render <tree> [--out=<file>] [--text] [--title=<title>]
    mailcraft parse <page> [--out=<file>] [--sanitize]
    mailcraft assist <tree> <instruction> [--out=<file>]
    mailcraft preview <tree> --to=<addr> [--subject=<subject>] [--tag=<tag>] [--dir=<dir>]
    mailcraft send <tree> --to=<addr> [--subject=<subject>] [--tag=<tag>]
    mailcraft serve [--addr=<addr>]
    mailcraft -h | --help
    mailcraft --version

Options:
    -h --help              Show this screen.
    --version              Show version.
    --out=<file>           Write the result to a file instead of stdout.
    --text                 Render the plain-text alternative instead of HTML.
    --title=<title>        Document title of the rendered HTML.
    --sanitize             Restrict text block markup to a safe subset.
    --to=<addr>            Recipient address.
    --subject=<subject>    Message subject [default: Mailcraft preview].
    --tag=<tag>            Provider tag used for analytics and file names.
    --dir=<dir>            Preview directory, overrides EMAIL_DEV_DIR.
    --addr=<addr>          Listen address, overrides SERVER_ADDR.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.FromConfig(logCfg, "mailcraft")
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, log: log}
	if err := cli.run(ctx, opts); err != nil {
		log.ErrorContext(ctx, "command failed", logger.Error(err))
		os.Exit(1)
	}
}
