// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/cdr-relay/internal/carrierx"
	"github.com/sirseerhq/cdr-relay/internal/config"
	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
	"github.com/sirseerhq/cdr-relay/internal/fetcher"
	"github.com/sirseerhq/cdr-relay/internal/logger"
	"github.com/sirseerhq/cdr-relay/internal/metadata"
	"github.com/sirseerhq/cdr-relay/internal/output"
	"github.com/sirseerhq/cdr-relay/internal/timerange"
	"github.com/sirseerhq/cdr-relay/pkg/version"
)

// fetchOptions holds the parsed flags of the fetch command.
type fetchOptions struct {
	token       string
	begin       string
	end         string
	format      output.Format
	formatSet   bool
	overwrite   bool
	conference  bool
	configPath  string
	logLevel    string
	summaryPath string
}

func newFetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <filename>",
		Short: "Download call detail records to a file",
		Long: `Download call detail records whose date_stop falls in [begin, end) and
save them to <filename>.

Dates are ISO 8601, with or without a time and zone:
  2024-01-01, 2024-01-01T10:00, 2024-01-01T10:00:00+02:00
Dates without a zone are read as UTC.

Authentication is required via CarrierX token:
  - Use --token flag to provide token directly
  - Or set CARRIERX_TOKEN (in the environment or a .env file)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formatSet = cmd.Flags().Changed("format")
			return runFetch(cmd.Context(), args[0], opts, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "CarrierX access token (overrides CARRIERX_TOKEN env var)")
	cmd.Flags().StringVarP(&opts.begin, "begin", "b", "", "Beginning of the date_stop window, inclusive (required)")
	cmd.Flags().StringVarP(&opts.end, "end", "e", "", "End of the date_stop window, exclusive (default: now)")
	cmd.Flags().VarP(&opts.format, "format", "f", "Output format: csv or json")
	cmd.Flags().BoolVarP(&opts.overwrite, "overwrite", "o", false, "Replace the output file if it exists")
	cmd.Flags().BoolVarP(&opts.conference, "conference", "c", false, "Download conference call records instead of SIP call records")

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.summaryPath, "summary", "", "Write a JSON run summary to this path")

	_ = cmd.MarkFlagRequired("begin")

	return cmd
}

// runFetch executes the fetch command. Nothing touches the network or the
// output path until every input has been validated.
func runFetch(ctx context.Context, filename string, opts fetchOptions, stderr io.Writer) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.formatSet {
		cfg.Defaults.Format = opts.format.String()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	token := getToken(opts.token, cfg.API.TokenEnv)
	if token == "" {
		return fmt.Errorf("CarrierX token not found. Set %s or use --token flag", cfg.API.TokenEnv)
	}

	window, err := timerange.NewWindow(opts.begin, opts.end, time.Now())
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Defaults.Format)
	if err != nil {
		return err
	}

	if err := output.CheckDestination(filename, opts.overwrite); err != nil {
		return err
	}

	query := carrierx.Query{
		Source: carrierx.SourceCalls,
		Window: window,
		Limit:  carrierx.MaxPageSize,
	}
	if opts.conference {
		query.Source = carrierx.SourceConference
	}

	log.WithFields(logrus.Fields{
		"source": query.Source.String(),
		"begin":  window.Begin,
		"end":    window.End,
		"format": string(format),
		"file":   filename,
	}).Info("Starting download")

	writer, err := output.NewFileWriter(filename, format)
	if err != nil {
		return err
	}

	client := carrierx.NewRESTClient(token, cfg.API.Endpoint,
		carrierx.WithTimeout(cfg.API.Timeout),
		carrierx.WithLogger(log),
	)

	tracker := metadata.New()
	result, err := fetcher.New(client, writer, log, tracker).Run(ctx, query)
	if err != nil {
		if format == output.FormatCSV && result != nil && result.Records > 0 {
			log.WithField("records", result.Records).Warn("Download failed; the output file holds the pages fetched so far")
		}
		return err
	}

	if result.Records == 0 {
		log.Infof("No records found between %s and %s", window.Begin, window.End)
	} else {
		log.Infof("Successfully saved %d records to %s", result.Records, filename)
	}

	if opts.summaryPath != "" {
		summary := tracker.GenerateSummary(version.Version, metadata.RunParams{
			Source:    query.Source.String(),
			Endpoint:  cfg.API.Endpoint,
			Begin:     window.Begin,
			End:       window.End,
			Format:    string(format),
			Output:    filename,
			Overwrite: opts.overwrite,
			PageSize:  query.Limit,
		})
		if err := metadata.SaveSummary(summary, opts.summaryPath); err != nil {
			return err
		}
	}

	return nil
}

// getToken returns the CarrierX token from flag or the named environment variable
func getToken(flagToken, envName string) string {
	if flagToken != "" {
		return flagToken
	}
	return strings.TrimSpace(os.Getenv(envName))
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrInvalidToken) {
		return 2 // Authentication errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
