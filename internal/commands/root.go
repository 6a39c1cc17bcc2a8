package commands

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/backend"
	"github.com/ledgerline-dev/ledgerline/internal/buildinfo"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/features"
	"github.com/ledgerline-dev/ledgerline/internal/observability"
	"github.com/ledgerline-dev/ledgerline/internal/resilience"
)

type globalOptions struct {
	workspace string
	logLevel  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledgerline",
		Short:   "Small business bookkeeping from bank statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newOnboardCommand(opts),
		newBanksCommand(),
		newImportCommand(opts),
		newSubmitCommand(opts),
		newFeaturesCommand(opts),
		newAccountsCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}

// workspace is an opened ledgerline workspace with its logger and metrics.
type workspace struct {
	root    string
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	client *backend.Client
	gate   *features.Gate
}

func openWorkspace(opts *globalOptions) (*workspace, error) {
	root, err := filepath.Abs(opts.workspace)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}

	cfg, err := config.LoadWorkspace(root)
	if err != nil {
		return nil, fmt.Errorf("opening workspace %s (run `ledgerline onboard` first?): %w", root, err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &workspace{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}, nil
}

// close flushes the logger and writes the metrics textfile when configured.
func (w *workspace) close() error {
	_ = w.logger.Sync()
	path := w.cfg.Metrics.Textfile
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	return w.metrics.WriteTextfile(path)
}

func (w *workspace) path(rel string) string {
	return filepath.Join(w.root, rel)
}

// backendClient returns nil when no backend is configured. All calls share
// one client and circuit breaker.
func (w *workspace) backendClient() *backend.Client {
	bc := w.cfg.Backend
	if !bc.Enabled() {
		return nil
	}
	if w.client != nil {
		return w.client
	}
	w.client = backend.NewClient(
		&http.Client{Timeout: bc.Timeout},
		bc.URL, bc.AnonKey, bc.ServiceKey,
		resilience.NewCircuitBreaker("supabase"),
		resilience.Config{MaxRetries: bc.MaxRetries, InitialBackoff: bc.InitialBackoff},
		w.logger,
		w.metrics,
	)
	return w.client
}

// featureGate checks plan features against the backend, or allows everything
// when offline.
func (w *workspace) featureGate() *features.Gate {
	if w.gate != nil {
		return w.gate
	}
	var checker features.Checker
	if client := w.backendClient(); client != nil {
		checker = client
	}
	w.gate = features.NewGate(checker, w.cfg.Organization.ID, w.cfg.Backend.FeatureCacheTTL, w.logger)
	return w.gate
}
