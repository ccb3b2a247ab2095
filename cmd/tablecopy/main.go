package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tw "github.com/datafuselabs/tablewriter-go"
)

const dsnEnv = "TABLEWRITER_DSN"

type options struct {
	dsn        string
	configFile string
	envFile    string
	table      string
	columns    string
	capacity   int
	delimiter  string
	header     bool
	retries    uint
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "tablecopy [flags] [file]",
		Short: "Stream CSV records into a PostgreSQL table with COPY",
		Long: `tablecopy reads CSV records from a file or standard input and appends
them to a table through a buffered COPY writer. Empty fields are loaded as NULL.

Examples:
  # load events.csv using a DSN from the environment or .env
  TABLEWRITER_DSN=postgres://me@localhost/db tablecopy --table events --columns id,ts,payload events.csv

  # load from stdin using a TOML configuration file
  cat rows.csv | tablecopy --config writer.toml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input io.Reader = os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				input = f
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, opts, input)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.dsn, "dsn", "", "connection DSN (default $"+dsnEnv+")")
	flags.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "environment file to load")
	flags.StringVar(&opts.table, "table", "", "target table")
	flags.StringVar(&opts.columns, "columns", "", "comma separated target columns")
	flags.IntVar(&opts.capacity, "capacity", -1, "buffer capacity in bytes")
	flags.StringVar(&opts.delimiter, "delimiter", ",", "input field delimiter")
	flags.BoolVar(&opts.header, "header", false, "skip the first input record")
	flags.UintVar(&opts.retries, "retries", 0, "retries of each failed flush")
	flags.BoolVar(&opts.debug, "debug", false, "debug logging")
	return cmd
}

func loadConfig(opts *options) (*tw.Config, error) {
	_ = godotenv.Load(opts.envFile) // no error if the file doesn't exist

	var (
		cfg *tw.Config
		err error
	)
	switch {
	case opts.configFile != "":
		cfg, err = tw.LoadConfig(opts.configFile)
	case opts.dsn != "":
		cfg, err = tw.ParseDSN(opts.dsn)
	case os.Getenv(dsnEnv) != "":
		cfg, err = tw.ParseDSN(os.Getenv(dsnEnv))
	default:
		return nil, fmt.Errorf("one of --config, --dsn or $%s is required", dsnEnv)
	}
	if err != nil {
		return nil, err
	}
	if opts.table != "" {
		cfg.Table = opts.table
	}
	if opts.columns != "" {
		cfg.Columns = strings.Split(opts.columns, ",")
	}
	if opts.capacity >= 0 {
		cfg.Capacity = opts.capacity
	}
	if opts.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options, input io.Reader) error {
	if opts.debug {
		log.SetLevel(log.DebugLevel)
		_ = tw.GetLogger().SetLogLevel("debug")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	delim := []rune(opts.delimiter)
	if len(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", opts.delimiter)
	}

	start := time.Now()
	w, err := tw.Open(ctx, cfg)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"table": cfg.Table, "writer": w.ID()}).Debug("connected")

	err = load(ctx, w, input, delim[0], len(cfg.Columns), opts)
	if cerr := w.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	stats := w.Stats()
	log.WithFields(log.Fields{
		"rows":    stats.Rows,
		"bytes":   stats.Bytes,
		"flushes": stats.Flushes,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("load complete")
	return nil
}

// reserved are the characters that break the row or column framing of an
// unquoted COPY value.
var reserved = string([]byte{tw.RowDelimiter, '\r', tw.ColumnDelimiter, tw.QuoteCharacter})

// appendRecord writes one CSV record as a row. Fields holding a reserved
// character are quoted, the others are appended raw so an empty field stays
// NULL. The row is always completed; a failed implicit flush is reported
// once the whole record is buffered.
func appendRecord(w *tw.TableWriter, record []string, columns int) error {
	if len(record) != columns {
		return fmt.Errorf("got %d fields for %d columns", len(record), columns)
	}
	var flushErr error
	for _, field := range record {
		if strings.ContainsAny(field, reserved) {
			w.AppendQuoted(field)
		} else {
			w.AppendString(field)
		}
		if _, err := w.Next(); err != nil && flushErr == nil {
			flushErr = err
		}
	}
	return flushErr
}

// flush retries a failed flush opts.retries times.
func flush(ctx context.Context, w *tw.TableWriter, opts *options) error {
	if opts.retries == 0 {
		return w.FlushContext(ctx)
	}
	return tw.FlushWithRetry(ctx, w, opts.retries+1, time.Second)
}

func load(ctx context.Context, w *tw.TableWriter, input io.Reader, delim rune, columns int, opts *options) error {
	reader := csv.NewReader(input)
	reader.Comma = delim
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if line == 1 && opts.header {
			continue
		}
		if err := appendRecord(w, record, columns); err != nil {
			if !tw.IsRetryable(err) || opts.retries == 0 {
				return fmt.Errorf("record %d: %w", line, err)
			}
			// the row is complete in the buffer, only its flush failed
			log.WithError(err).Warn("flush failed, retrying")
			if err := flush(ctx, w, opts); err != nil {
				return fmt.Errorf("record %d: %w", line, err)
			}
		}
	}
	return flush(ctx, w, opts)
}
