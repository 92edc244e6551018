package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fexplorer/internal/config"
	"fexplorer/internal/explorer"
	"fexplorer/internal/logger"
	"fexplorer/internal/store"
)

const (
	cmdName   = "fexplorer"
	shortDesc = "A terminal file explorer."
	longDesc  = `fexplorer browses directories in the terminal.

It lists the current directory, keeps back/next history, previews text files
with syntax highlighting, images and binary files, and remembers the
locations you visit.`
)

// ErrNotTerminal is returned when the explorer is started without a terminal.
var ErrNotTerminal = errors.New("stdout is not a terminal, use `fexplorer ls` to list directories")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		stop()
		os.Exit(1)
	}
}

// rootOptions are the flags that override the settings file.
type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
	icons      string
	layout     string
	showHidden bool
}

func (o *rootOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to the settings file")
	flags.StringVar(&o.logLevel, "log-level", "", "Set the log level (debug, info, warn, error)")
	flags.StringVar(&o.logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().StringVar(&o.icons, "icons", "", "Icon set (ascii, emoji)")
	cmd.Flags().StringVar(&o.layout, "layout", "", "Panel layout (automatic, horizontal, vertical)")
	cmd.Flags().BoolVar(&o.showHidden, "show-hidden", false, "Show hidden files")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           cmdName + " [dir]",
		Short:         shortDesc,
		Long:          longDesc,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cc *cobra.Command, args []string) error {
			cfg, saved, err := loadConfig(cc, opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var start string
			if len(args) > 0 {
				start = args[0]
			}
			return runExplorer(cc.Context(), cfg, saved, start)
		},
	}
	opts.bindFlags(cmd)

	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newLsCmd(opts))
	cmd.AddCommand(newRecentCmd(opts))

	return cmd
}

// loadConfig reads the settings file, applies the flags that were set on
// the command line and starts the logger. The second result is the settings
// as read from the file, without the flags; that is what the Settings tab
// saves.
func loadConfig(cc *cobra.Command, opts *rootOptions) (*config.Config, *config.Config, error) {
	saved, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg := saved.Clone()

	flags := cc.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("icons") {
		cfg.Icons = config.IconSet(opts.icons)
	}
	if flags.Changed("layout") {
		cfg.PanelLayout = config.Layout(opts.layout)
	}
	if flags.Changed("show-hidden") {
		cfg.ShowHidden = opts.showHidden
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid argument: %w", err)
	}

	logger.Init(cfg.Log.Level, logger.DefaultFileConfig(cfg.Log.File))
	return cfg, saved, nil
}

func runExplorer(ctx context.Context, cfg, saved *config.Config, start string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return ErrNotTerminal
	}

	log := logger.Log

	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		// Running without history is better than not running.
		log.Warn("opening location history failed", zap.String("path", cfg.HistoryDB), zap.Error(err))
		st = nil
	} else {
		defer st.Close()
	}

	start = startDirectory(ctx, cfg, st, start)
	log.Info("starting", zap.String("start", start), zap.String("config", cfg.Path()))

	nav := explorer.New(start, explorer.WithLogger(log), explorer.WithChdir(true))
	m := newModel(ctx, cfg, saved, nav, st, log)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}

// startDirectory picks where the explorer opens: the argument, the
// configured start directory, the last visited location when resuming is
// on, or the working directory.
func startDirectory(ctx context.Context, cfg *config.Config, st *store.Store, arg string) string {
	if arg != "" {
		return arg
	}
	if cfg.StartDir != "" {
		return resolveInput(cfg.StartDir, "")
	}
	if cfg.ResumeLastDir && st != nil {
		last, ok, err := st.Last(ctx)
		if err != nil {
			logger.Log.Warn("reading last location failed", zap.Error(err))
		} else if ok {
			return last.Path
		}
	}
	return ""
}
