package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txanalyser/internal/analysis"
	"github.com/cleared-dev/txanalyser/internal/buildinfo"
	"github.com/cleared-dev/txanalyser/internal/config"
	"github.com/cleared-dev/txanalyser/internal/ledger"
	"github.com/cleared-dev/txanalyser/internal/logger"
	"github.com/cleared-dev/txanalyser/internal/metrics"
	"github.com/cleared-dev/txanalyser/internal/model"
)

const usageExample = `  txanalyser ACC334455 "20/10/2018 12:00:00" "20/10/2018 19:00:00"`

// options are the flag values; empty strings leave the config value alone.
type options struct {
	configPath  string
	dataFile    string
	metricsFile string
	logLevel    string
	logFormat   string
	list        bool
}

// query is a validated set of positional arguments.
type query struct {
	accountID string
	from      time.Time
	to        time.Time
}

// NewRootCommand creates the root CLI command.
func NewRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:     "txanalyser <account-id> <from> <to>",
		Short:   "Relative account balance over a time window",
		Long:    "Computes the net movement of an account from unreversed payments created between <from> and <to> (inclusive, dd/MM/yyyy HH:mm:ss).",
		Example: usageExample,
		Version: buildinfo.String(),
		Args:    validateArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(args)
			if err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, q)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to a txanalyser.yaml config file")
	flags.StringVarP(&opts.dataFile, "file", "f", "", "transactions CSV file (default \""+config.DefaultDataFile+"\")")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console, json")
	flags.BoolVar(&opts.list, "list", false, "print each contributing transaction")

	return rootCmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 3 {
		return &ArgumentError{
			Arg: "arguments",
			Err: fmt.Errorf("expected 3 arguments (account id, from date, to date), got %d\nexample:\n%s", len(args), usageExample),
		}
	}
	if len(args) > 3 {
		return &ArgumentError{
			Arg: "arguments",
			Err: fmt.Errorf("expected 3 arguments (account id, from date, to date), got %d", len(args)),
		}
	}
	return nil
}

func parseQuery(args []string) (query, error) {
	accountID := strings.TrimSpace(args[0])
	if accountID == "" {
		return query{}, &ArgumentError{Arg: "account id", Err: errors.New("must not be empty")}
	}

	from, err := parseBound("from date", args[1])
	if err != nil {
		return query{}, err
	}
	to, err := parseBound("to date", args[2])
	if err != nil {
		return query{}, err
	}
	return query{accountID: accountID, from: from, to: to}, nil
}

func parseBound(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := model.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, &ArgumentError{
			Arg:   name,
			Value: value,
			Err:   fmt.Errorf("expected format dd/MM/yyyy HH:mm:ss: %w", err),
		}
	}
	return t, nil
}

func run(stdout, stderr io.Writer, opts options, q query) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	opts.apply(cfg)

	log := logger.New(stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).
		With().
		Str("run_id", ulid.Make().String()).
		Logger()

	m := metrics.New()
	defer func() {
		if cfg.MetricsFile == "" {
			return
		}
		if err := m.WriteToTextfile(cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("failed to write metrics")
		}
	}()

	txns, err := ledger.NewLoader(log, m).Load(ledger.FileSource{Path: cfg.DataFile})
	if err != nil {
		return err
	}

	analyser := analysis.NewAnalyser(txns)
	payments, reversals := analyser.Counts()
	log.Info().
		Str("account", q.accountID).
		Time("from", q.from).
		Time("to", q.to).
		Int("payments", payments).
		Int("reversals", reversals).
		Msg("analysing")

	result := analyser.Analyse(q.accountID, q.from, q.to)
	m.ObserveAnalysis(result.RelativeBalance, len(result.Transactions))

	return printResult(stdout, result, opts.list)
}

func (o options) apply(cfg *config.Config) {
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	if o.metricsFile != "" {
		cfg.MetricsFile = o.metricsFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
}

func printResult(w io.Writer, result analysis.Result, list bool) error {
	if _, err := fmt.Fprintf(w, "Relative balance for the period is: %s\n", result.RelativeBalance); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Number of transactions included is: %d\n", len(result.Transactions)); err != nil {
		return err
	}
	if !list {
		return nil
	}
	for _, txn := range result.Transactions {
		if _, err := fmt.Fprintf(w, "%s\t%s -> %s\t%s\t%s\n",
			txn.ID, txn.FromAccount, txn.ToAccount, txn.CreatedAt.Format(model.TimestampLayout), txn.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}
