package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"saucenao/acquire"
	"saucenao/config"
	"saucenao/logging"
	"saucenao/models"
	"saucenao/saucenao"
	"saucenao/session"
	"saucenao/storage"
	"saucenao/ui"
)

var (
	configPath string
	logLevel   string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "saucenao [FILE|URL]",
	Short: "Reverse image search with SauceNAO",
	Long: `
Search SauceNAO for the source of an image.

Run without arguments to open the desktop window. Passing a file or a URL
opens the window and searches for it straight away. Use the search command to
search from the terminal instead.
`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGUI,
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Human readable debug logging")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(databasesCmd)
}

// runtime is what every command needs
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *storage.Manager
	client  *saucenao.Client
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.Debug = true
		if logLevel == "" {
			cfg.LogLevel = "debug"
		}
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		storage: storage.NewManager(cfg.DataDir, logger),
		client:  saucenao.NewClient(saucenao.OptionsFromConfig(cfg), logger),
	}, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	var initial *models.SearchInput
	if len(args) == 1 {
		in, err := acquire.FromShared(args[0])
		if err != nil {
			return err
		}
		initial = &in
	}

	rt.logger.Info("starting desktop client", zap.String("endpoint", rt.cfg.Endpoint), zap.String("data_dir", rt.storage.DataPath()))

	ui.NewMainWindow(ui.Dependencies{
		Storage: rt.storage,
		Runner:  session.NewRunner(rt.client, rt.logger),
		Logger:  rt.logger,
		Initial: initial,
	}).ShowAndRun()
	return nil
}

// ExitError carries the process exit code for an outcome that is not a
// plain failure
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Exit prints err, if any, and exits with the matching code
func Exit(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(ExitCode(err))
}
