package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/config"
	"github.com/HendryAvila/prompt-mirror/internal/logging"
	"github.com/HendryAvila/prompt-mirror/internal/mirror"
	"github.com/HendryAvila/prompt-mirror/internal/presets"
	"github.com/HendryAvila/prompt-mirror/internal/remote"
)

// app carries the global flags and the services built from them.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	service  *mirror.Service
}

// load resolves configuration and builds the logger and analysis service.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, a.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = prometheus.NewRegistry()

	opts := mirror.Options{
		Timeout: cfg.Remote.Timeout,
		Logger:  logger,
		Metrics: mirror.MustNewMetrics(a.registry),
	}
	adapter, err := remote.New(cfg.Remote, logger)
	switch {
	case err == nil:
		opts.Adapter = adapter
		logger.Info("remote analysis enabled", zap.String("provider", adapter.ID()))
	case errors.Is(err, remote.ErrNotConfigured) && !cfg.Remote.Enabled:
		// Rule-based only.
	default:
		logger.Warn("remote analysis disabled", zap.Error(err))
	}
	a.service = mirror.NewService(opts)
	return nil
}

func (a *app) openPresets() (*presets.Store, error) {
	store, err := presets.New(presets.Config{DataDir: a.cfg.Presets.DataDir})
	if err != nil {
		return nil, fmt.Errorf("opening preset catalog: %w", err)
	}
	return store, nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// readPrompt joins args, or reads stdin when there are none or the only
// argument is "-". Long input is trimmed and a notice printed to stderr.
func (a *app) readPrompt(cmd *cobra.Command, args []string) (string, error) {
	var text string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			fmt.Fprintln(cmd.ErrOrStderr(), gray("Reading prompt from stdin, end with Ctrl-D."))
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(args, " ")
	}

	text, trimmed := mirror.TrimInput(text, a.cfg.MaxInputChars)
	if trimmed {
		fmt.Fprintln(cmd.ErrOrStderr(), yellow(mirror.TrimmedNotice(a.cfg.MaxInputChars)))
	}
	return text, nil
}
