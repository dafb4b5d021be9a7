// Package scan implements the command that traces documents for defect signatures.
package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/doctracer/cmd/common"
	"github.com/jonesrussell/doctracer/internal/config"
	"github.com/jonesrussell/doctracer/internal/extractor"
	"github.com/jonesrussell/doctracer/internal/fetcher"
	"github.com/jonesrussell/doctracer/internal/metrics"
	"github.com/jonesrussell/doctracer/internal/report"
	"github.com/jonesrussell/doctracer/internal/scanner"
	"github.com/jonesrussell/doctracer/internal/tracer"
	"github.com/jonesrussell/doctracer/internal/urllist"
)

// Flag names.
const (
	flagFile            = "file"
	flagOutput          = "output"
	flagWorkers         = "workers"
	flagTimeout         = "timeout"
	flagSignatures      = "signatures"
	flagMetricsTextfile = "metrics-textfile"
	flagMode            = "mode"
)

var bindings = []common.FlagBinding{
	{Key: "tracer.workers", Flag: flagWorkers},
	{Key: "fetch.timeout", Flag: flagTimeout},
	{Key: "tracer.signatures_file", Flag: flagSignatures},
	{Key: "metrics.textfile", Flag: flagMetricsTextfile},
	{Key: "extract.mode", Flag: flagMode},
}

type options struct {
	file   string
	output string
}

// Command returns the scan command.
func Command() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "scan [URL...]",
		Short: "Trace documents for defect signatures",
		Long: `Fetch each document, extract its text and match it against the defect
signature table. Documents are given either as arguments or, with --file, as a
newline-delimited list where blank lines and lines starting with # are ignored.

The exit status is 0 only when every document was fetched and parsed.`,
		Example: `  doctracer scan https://example.com/minutes.html
  doctracer scan --file urls.txt --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, flagFile, "f", "", "path to a newline-delimited URL list")
	cmd.Flags().StringVarP(&opts.output, flagOutput, "o", string(report.FormatText), "output format: text, json or table")
	cmd.Flags().Int(flagWorkers, tracer.DefaultWorkers, "number of documents traced concurrently")
	cmd.Flags().Duration(flagTimeout, fetcher.DefaultTimeout, "timeout for each document fetch")
	cmd.Flags().String(flagSignatures, "", "YAML signature table to use instead of the built-in one")
	cmd.Flags().String(flagMetricsTextfile, "", "write Prometheus metrics to this file after the run")
	cmd.Flags().String(flagMode, config.ExtractModeDocument, "text extraction mode: document or article")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrUsage, err)
	}

	urls, err := resolveURLs(args, opts.file)
	if err != nil {
		return err
	}

	deps, err := common.NewCommandDeps(cmd, bindings...)
	if err != nil {
		return err
	}
	log := deps.Logger
	defer func() { _ = log.Sync() }()
	cfg := deps.Config

	idx, err := common.LoadSignatures(cfg.Tracer.SignaturesFile)
	if err != nil {
		return err
	}

	m := metrics.New()
	t := tracer.New(
		fetcher.New(fetcherConfig(cfg.Fetch), log),
		extractor.New(extractor.Mode(cfg.Extract.Mode), log),
		scanner.New(idx,
			scanner.WithWindow(cfg.Scanner.ExcerptWindow),
			scanner.WithPrefilter(cfg.Scanner.Prefilter),
		),
		tracer.WithWorkers(cfg.Tracer.Workers),
		tracer.WithLogger(log),
		tracer.WithRecorder(m),
	)

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, ok := t.Run(ctx, urls)

	if writeErr := report.Write(cmd.OutOrStdout(), format, reports); writeErr != nil {
		return writeErr
	}

	if cfg.Metrics.Textfile != "" {
		if mErr := m.WriteTextfile(cfg.Metrics.Textfile); mErr != nil {
			log.WithError(mErr).Error("Failed to write metrics", "path", cfg.Metrics.Textfile)
		}
	}

	if !ok {
		return common.ErrIncomplete
	}
	return nil
}

// resolveURLs returns the URLs to trace. Exactly one of args and file must be given.
func resolveURLs(args []string, file string) ([]string, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, fmt.Errorf("%w: give URLs as arguments or with --file, not both", common.ErrUsage)
	case len(args) == 0 && file == "":
		return nil, fmt.Errorf("%w: no URLs given; pass URLs as arguments or use --file", common.ErrUsage)
	case file != "":
		urls, err := urllist.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrUsage, err)
		}
		return urls, nil
	default:
		return args, nil
	}
}

func fetcherConfig(c config.FetchConfig) fetcher.Config {
	return fetcher.Config{
		Client:       fetcher.ClientConfig{Timeout: c.Timeout},
		UserAgent:    c.UserAgent,
		MaxBodyBytes: c.MaxBodyBytes,
		Retry: fetcher.RetryConfig{
			MaxAttempts:  c.MaxAttempts,
			InitialDelay: c.RetryInitialDelay,
			MaxDelay:     c.RetryMaxDelay,
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
