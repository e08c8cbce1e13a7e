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

// Package logger builds the logrus logger shared by the CLI and the fetch
// pipeline. Logs go to stderr so they never mix with data, and can be
// mirrored to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string
	// Format is "text" or "json".
	Format string
	// File, when set, receives a copy of every log line.
	File string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a configured logger. The returned close function releases the
// log file, if any, and is safe to call when no file was opened.
func New(opts Options) (*logrus.Logger, func() error, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	closer := func() error { return nil }
	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(out, file)
		closer = file.Close
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000000",
		})
	default:
		if err := closer(); err != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("invalid log format %q (want text or json)", opts.Format)
	}

	return log, closer, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
