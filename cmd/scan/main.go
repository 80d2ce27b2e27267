// Package main provides the scan command: it queries Overpass around the lodge
// and writes the knowledge-base dump.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alpenlodge/internal/cli"
	"alpenlodge/internal/config"
	"alpenlodge/internal/crawler"
	"alpenlodge/internal/formatter"
	"alpenlodge/internal/ingest"
	"alpenlodge/internal/logger"
	"alpenlodge/pkg/metadata"
)

const defaultOutput = "alpenlodge_verified_50km_osm_dump.json"

type scanOptions struct {
	output         string
	envFiles       []string
	maxPerCategory int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, newRootCommand(os.Stdout, os.Stderr), os.Args[1:], os.Stderr)

	stop()
	os.Exit(code)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &scanOptions{envFiles: []string{".env"}}

	cmd := &cobra.Command{
		Use:   "scan <config>",
		Short: "Scan OpenStreetMap around the lodge into a knowledge-base document",
		Long: `Scan reads a scan configuration (JSON, or YAML by extension), runs one
Overpass query per configured category and writes every named POI inside the
configured radius as a knowledge-base JSON document.

Environment: OVERPASS_ENDPOINTS, OVERPASS_TIMEOUT_SEC, OVERPASS_USER_AGENT,
OVERPASS_MAX_BODY_MB and LOG_LEVEL, optionally from a .env file.`,
		Args: cli.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-per-category") {
				opts.maxPerCategory = 0
			} else if opts.maxPerCategory < 1 {
				return cli.Usagef("--max-per-category must be at least 1, got %d", opts.maxPerCategory)
			}

			return runScan(cmd.Context(), args[0], opts, stdout, stderr)
		},
	}

	cmd.Flags().IntVar(&opts.maxPerCategory, "max-per-category", config.DefaultMaxPerCategory,
		"safety cap on elements processed per category query")
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutput, "output document path")

	return cmd
}

func runScan(ctx context.Context, configPath string, opts *scanOptions, stdout, stderr io.Writer) error {
	envCfg, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return cli.NewUsageError(fmt.Errorf("environment: %w", err))
	}

	log := logger.NewLoggerWithWriter(envCfg.LogLevel, stderr)

	cfg, err := config.LoadScanConfig(configPath)
	if err != nil {
		return cli.NewUsageError(fmt.Errorf("scan config %s: %w", configPath, err))
	}

	log.Info("Configuration loaded", "path", configPath, "config", cfg.String())

	client := crawler.NewClient(envCfg, log)
	pipeline := ingest.NewPipeline(cfg, client, log, ingest.WithMaxPerCategory(opts.maxPerCategory))

	doc, stats, err := pipeline.Run(ctx)

	client.Endpoints().LogAttemptSummary(log)

	if err != nil {
		log.Error("Scan aborted", "error", err)
		return fmt.Errorf("scan aborted, no output written: %w", err)
	}

	data, err := formatter.WriteDocument(opts.output, doc)
	if err != nil {
		log.Error("Writing document failed", "path", opts.output, "error", err)
		return err
	}

	log.Info("Document written",
		"path", opts.output,
		"bytes", len(data),
		"sha256", metadata.CalculateHash(data),
	)
	log.Debug("Run summary\n" + formatter.FormatStats(stats))

	fmt.Fprintln(stdout, opts.output)
	fmt.Fprintf(stdout, "Items: %d\n", len(doc.Items))

	return nil
}
