// Package cli is the bsicollect command line: look at a study report,
// fetch sample files, and print reads.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrew-torda/bsi_collect/pkg/collector"
	"github.com/andrew-torda/bsi_collect/pkg/common"
	"github.com/andrew-torda/bsi_collect/pkg/config"
	"github.com/andrew-torda/bsi_collect/pkg/fetch"
	"github.com/andrew-torda/bsi_collect/pkg/metrics"
)

const defaultConfig = "bsi.yaml"

// app is the state shared by the subcommands once flags are parsed.
type app struct {
	cfgFile     string
	report      string
	dataRoot    string
	workers     int
	verbose     bool
	metricsFile string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Set
}

// NewRootCmd builds the command tree. Each call gets fresh state.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bsicollect",
		Short: "Sort, fetch and read the samples of a blood stream infection study",
		Long: `bsicollect reads the tab separated file report of a sequencing study.
Samples are sorted into capsules and, per patient, blood and FMT samples.
Their fastq files are fetched to Data/Capsules, Data/<patient>/Blood and
Data/<patient>/FMT and can be printed as reads.`,
		SilenceUsage:      true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: a.setup,
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		}),
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", defaultConfig, "YAML config file, need not exist")
	pf.StringVar(&a.report, "report", "", "study report (default from config)")
	pf.StringVar(&a.dataRoot, "data", "", "root of the data directory (default from config)")
	pf.IntVar(&a.workers, "workers", 0, "samples fetched at once (default from config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write prometheus counters here on exit")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return common.Usage(err)
	})
	root.AddCommand(a.summaryCmd(), a.patientsCmd(), a.fetchCmd(), a.readsCmd(), a.checkCmd())
	return root
}

// setup loads config, lets flags win, and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("report") {
		cfg.Report = a.report
	}
	if pf.Changed("data") {
		cfg.DataRoot = a.dataRoot
	}
	if pf.Changed("workers") {
		cfg.Workers = a.workers
	}
	if pf.Changed("metrics-file") {
		cfg.MetricsFile = a.metricsFile
	}
	if a.verbose {
		cfg.Logging.Verbose = true
	}
	// the file was checked by Load, so this can only be the flags
	if err := cfg.Validate(); err != nil {
		return common.Usage(err)
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if cfg.Logging.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if a.logger, err = zcfg.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.metrics = metrics.New()
	return nil
}

// wrap runs a command and then finish, whether or not the command
// worked, so failures still reach the metrics file.
func (a *app) wrap(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, a.finish())
	}
}

func (a *app) finish() error {
	var err error
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		err = a.metrics.WriteTextfile(a.cfg.MetricsFile)
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func (a *app) registry() (*collector.Registry, error) {
	return collector.FromFile(a.cfg.Report, &collector.Options{Logger: a.logger, Metrics: a.metrics})
}

// ensurer puts together the fetch stack: http for archive uris, s3 for
// mirrors, both with retries.
func (a *app) ensurer(ctx context.Context) (*fetch.Ensurer, error) {
	timeout, err := a.cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	backoff, err := a.cfg.FetchBackoff()
	if err != nil {
		return nil, err
	}
	retry := func(f fetch.Fetcher) fetch.Fetcher {
		return &fetch.Retry{Fetcher: f, Attempts: a.cfg.Fetch.Attempts, Backoff: backoff, Timeout: timeout}
	}
	web := retry(&fetch.HTTPFetcher{Client: http.DefaultClient})
	s3f, err := fetch.NewS3(ctx, a.cfg.S3)
	if err != nil {
		return nil, err
	}
	mux := fetch.NewMux()
	for _, s := range []string{"", "http", "https", "ftp"} {
		mux.Handle(s, web)
	}
	mux.Handle("s3", retry(s3f))
	return &fetch.Ensurer{
		Root:         a.cfg.DataRoot,
		Fetcher:      mux,
		Decompressor: fetch.Gunzipper{},
		Workers:      a.cfg.Workers,
		Logger:       a.logger,
		Metrics:      a.metrics,
	}, nil
}

// Execute runs the command line and returns the exit code. An
// interrupt cancels fetches in progress.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return common.ExitCode(NewRootCmd().ExecuteContext(ctx))
}

// usageArgs makes argument count errors usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return common.Usage(check(cmd, args))
	}
}
