// Command invoicer renders bilingual invoices from JSON or YAML documents,
// on the command line or over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wudi/invoicekit/fonts"
	"github.com/wudi/invoicekit/invoice"
	"github.com/wudi/invoicekit/observability"
	"github.com/wudi/invoicekit/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicer: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicer",
		Usage: "render bilingual invoices to PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVars: []string{"INVOICER_LOG_LEVEL"}},
			&cli.StringSliceFlag{Name: "font-dir", Usage: "directory searched for the font family (repeatable)", EnvVars: []string{"INVOICER_FONT_DIR"}},
			&cli.StringFlag{Name: "font-family", Value: invoice.DefaultFontFamily, Usage: "font family of the page", EnvVars: []string{"INVOICER_FONT_FAMILY"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render one document to a PDF file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Required: true, Usage: "invoice document (.json, .yaml)", EnvVars: []string{"INVOICER_IN"}},
					&cli.StringFlag{Name: "out", Value: "invoice.pdf", Usage: "output file", EnvVars: []string{"INVOICER_OUT"}},
					&cli.BoolFlag{Name: "allow-overflow", Usage: "write the page even if content runs past it"},
				},
				Action: renderAction,
			},
			{
				Name:  "serve",
				Usage: "serve POST /invoices/pdf",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address", EnvVars: []string{"INVOICER_ADDR"}},
				},
				Action: serveAction,
			},
			{
				Name:  "sample",
				Usage: "print a sample document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
				},
				Action: sampleAction,
			},
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// setup builds the logger and the renderer options shared by all commands.
func setup(c *cli.Context, extra ...invoice.Option) (*zap.Logger, *invoice.Renderer, error) {
	zl, err := newLogger(c.String("log-level"))
	if err != nil {
		return nil, nil, err
	}
	dirs := append(c.StringSlice("font-dir"), fonts.SystemFontDirs...)
	opts := []invoice.Option{
		invoice.WithLogger(observability.NewZapLogger(zl)),
		invoice.WithTracer(observability.NewOTelTracer(nil)),
		invoice.WithFontResolver(fonts.DirResolver{Dirs: dirs}),
		invoice.WithFontFamily(c.String("font-family")),
	}
	return zl, invoice.NewRenderer(append(opts, extra...)...), nil
}

func renderAction(c *cli.Context) error {
	zl, r, err := setup(c, invoice.WithAllowOverflow(c.Bool("allow-overflow")))
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	in := c.String("in")
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := invoice.DecodeDocument(f, invoice.FormatFromPath(in))
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	out, err := r.Render(c.Context, doc.Invoice, doc.Customer, doc.Profile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
		return err
	}
	zl.Info("wrote invoice", zap.String("file", c.String("out")), zap.Int("bytes", len(out)))
	return nil
}

func serveAction(c *cli.Context) error {
	zl, r, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.New(r, observability.NewZapLogger(zl)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	zl.Info("listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func sampleAction(c *cli.Context) error {
	format := invoice.FormatJSON
	if c.String("format") == "yaml" {
		format = invoice.FormatYAML
	}
	return invoice.EncodeDocument(c.App.Writer, invoice.Sample(), format)
}
