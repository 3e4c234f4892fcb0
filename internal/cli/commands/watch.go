package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/cli/config"
	"github.com/sapodata/odatagen/internal/cli/ui"
	"github.com/sapodata/odatagen/internal/watch"
)

type watchOptions struct {
	*globalOptions
	delay time.Duration
	jobs  int
}

// NewWatchCommand creates the watch command
func NewWatchCommand(global *globalOptions) *cobra.Command {
	opts := &watchOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "watch [service...]",
		Short: "Regenerate services when their metadata changes",
		Long: `Generate the configured services once, then watch their metadata documents
and regenerate a service whenever its document changes on disk.

Saving a file without changing its content does not trigger a rebuild.

Examples:
  odatagen watch
  odatagen watch gwsample --delay 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args)
		},
	}

	cmd.Flags().DurationVar(&opts.delay, "delay", watch.DefaultDelay, "Quiet period before regenerating")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Services compiled in parallel")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions, args []string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	services, err := selectServices(cfg, args)
	if err != nil {
		return err
	}
	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchServices(ctx, cmd.OutOrStdout(), services, logger, opts)
}

// serviceWatcher regenerates the services whose inputs changed.
type serviceWatcher struct {
	out      io.Writer
	byInput  map[string][]config.Service
	tracker  *watch.Tracker
	logger   *zap.Logger
	jobs     int
	noColor  bool
	mu       sync.Mutex
	rebuilds int
}

func newServiceWatcher(out io.Writer, services []config.Service, logger *zap.Logger, jobs int, noColor bool) (*serviceWatcher, error) {
	sw := &serviceWatcher{
		out:     out,
		byInput: make(map[string][]config.Service),
		tracker: watch.NewTracker(),
		logger:  logger,
		jobs:    jobs,
		noColor: noColor,
	}
	for _, svc := range services {
		abs, err := filepath.Abs(svc.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", svc.Input, err)
		}
		sw.byInput[abs] = append(sw.byInput[abs], svc)
	}
	return sw, nil
}

func (sw *serviceWatcher) inputs() []string {
	out := make([]string, 0, len(sw.byInput))
	for path := range sw.byInput {
		out = append(out, path)
	}
	return out
}

// onChange is called by the file watcher with a debounced batch of paths.
func (sw *serviceWatcher) onChange(files []string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	changed, err := sw.tracker.Changed(files)
	if err != nil {
		sw.logger.Warn("failed to hash changed file", zap.Error(err))
	}
	var services []config.Service
	for _, path := range changed {
		services = append(services, sw.byInput[path]...)
	}
	if len(services) == 0 {
		sw.logger.Debug("content unchanged", zap.Strings("files", files))
		return nil
	}

	sw.rebuilds++
	ui.NewColor(sw.noColor, color.FgCyan).Fprintf(sw.out, "\n[%s] %d file(s) changed, regenerating...\n",
		time.Now().Format("15:04:05"), len(changed))
	if err := generateServices(sw.out, services, sw.logger, sw.jobs, sw.noColor); err != nil {
		fmt.Fprintf(sw.out, "%v\n", err)
	}
	return nil
}

func watchServices(ctx context.Context, out io.Writer, services []config.Service, logger *zap.Logger, opts *watchOptions) error {
	sw, err := newServiceWatcher(out, services, logger, opts.jobs, opts.noColor)
	if err != nil {
		return err
	}

	if err := generateServices(out, services, logger, opts.jobs, opts.noColor); err != nil {
		fmt.Fprintf(out, "%v\n", err)
	}
	inputs := sw.inputs()
	sw.tracker.Seed(inputs...)

	fw, err := watch.NewFileWatcher(watch.Options{
		Files:   inputs,
		Ignored: []string{"*.swp", "*~", "*.tmp"},
		Delay:   opts.delay,
		Logger:  logger,
	}, sw.onChange)
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		_ = fw.Stop()
		return err
	}

	ui.NewColor(opts.noColor, color.FgGreen, color.Bold).Fprintf(out, "Watching %d file(s). Press Ctrl+C to stop.\n", len(inputs))
	<-ctx.Done()

	ui.NewColor(opts.noColor, color.FgYellow).Fprintln(out, "\nStopping watcher...")
	return fw.Stop()
}
