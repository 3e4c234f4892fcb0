package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sapodata/odatagen/internal/cli/config"
	"github.com/sapodata/odatagen/internal/cli/ui"
	"github.com/sapodata/odatagen/internal/compiler"
	"github.com/sapodata/odatagen/internal/compiler/codegen"
	cerrors "github.com/sapodata/odatagen/internal/compiler/errors"
)

type generateOptions struct {
	*globalOptions
	input        string
	namespace    string
	pkg          string
	output       string
	metadataView bool
	jobs         int
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(global *globalOptions) *cobra.Command {
	opts := &generateOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:     "generate [service...]",
		Aliases: []string{"g", "gen"},
		Short:   "Generate Go source from metadata documents",
		Long: `Generate Go source for one metadata document or for the services listed
in odatagen.yaml.

Each service produces <output>/<namespace>.go and, with the metadata view
enabled, <output>/<namespace>_metadata.go. Output that gofmt rejects is
written to a _failed.go file instead so it can be inspected.

Examples:
  odatagen generate -i metadata.xml -n GWSAMPLE_BASIC -p gwsample -o internal/gwsample
  odatagen generate
  odatagen generate gwsample flights`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateCommand(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Metadata document to compile")
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Schema namespace to compile (required with --input)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package name of the generated files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory")
	cmd.Flags().BoolVar(&opts.metadataView, "metadata-view", false, "Also emit typed metadata getters")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Services compiled in parallel")

	return cmd
}

func runGenerateCommand(cmd *cobra.Command, opts *generateOptions, args []string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	services, err := opts.services(cmd, cfg, args)
	if err != nil {
		return err
	}
	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return generateServices(cmd.OutOrStdout(), services, logger, opts.jobs, opts.noColor)
}

// services returns the jobs selected by the flags and arguments.
func (o *generateOptions) services(cmd *cobra.Command, cfg *config.Config, args []string) ([]config.Service, error) {
	if o.input != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--input cannot be combined with service names")
		}
		if o.namespace == "" {
			return nil, fmt.Errorf("--namespace is required with --input")
		}
		view := cfg.MetadataView
		if cmd.Flags().Changed("metadata-view") {
			view = o.metadataView
		}
		svc := config.Service{
			Name:         strings.TrimSuffix(filepath.Base(o.input), filepath.Ext(o.input)),
			Input:        o.input,
			Namespace:    o.namespace,
			Package:      firstNonEmpty(o.pkg, cfg.Package),
			Output:       firstNonEmpty(o.output, cfg.OutputDir),
			MetadataView: &view,
		}
		return []config.Service{svc}, nil
	}
	return selectServices(cfg, args)
}

// selectServices resolves service names against the configuration. No names
// selects every configured service.
func selectServices(cfg *config.Config, names []string) ([]config.Service, error) {
	if len(names) == 0 {
		if len(cfg.Services) == 0 {
			return nil, fmt.Errorf("no services configured; pass --input and --namespace or add services to odatagen.yaml")
		}
		return cfg.Resolved(), nil
	}
	out := make([]config.Service, 0, len(names))
	for _, name := range names {
		svc, ok := cfg.Service(name)
		if !ok {
			return nil, ui.NotFound("service", name, cfg.ServiceNames())
		}
		out = append(out, svc)
	}
	return out, nil
}

// generateResult is the outcome of one service.
type generateResult struct {
	service     config.Service
	files       []string
	diagnostics cerrors.ErrorList
	err         error
}

func (r generateResult) failed() bool {
	return r.err != nil || r.diagnostics.HasErrors()
}

// generateServices compiles services in parallel and reports them in order.
func generateServices(out io.Writer, services []config.Service, logger *zap.Logger, jobs int, noColor bool) error {
	results := make([]generateResult, len(services))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, svc := range services {
		g.Go(func() error {
			results[i] = generateService(svc, logger)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			ui.WriteError(out, r.err, noColor)
		}
		ui.WriteDiagnostics(out, r.diagnostics, noColor)
		if r.failed() {
			failed++
			continue
		}
		ui.WriteSuccess(out, fmt.Sprintf("%s: wrote %s (%s)",
			r.service.Name, strings.Join(r.files, ", "), ui.Summary(r.diagnostics)), noColor)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d service(s) failed", failed, len(services))
	}
	return nil
}

// generateService compiles one service and writes its files.
func generateService(svc config.Service, logger *zap.Logger) generateResult {
	res := generateResult{service: svc}
	logger = logger.With(zap.String("service", svc.Name))

	compiled, err := compiler.CompileFile(svc.Input, compiler.Options{
		Namespace:    svc.Namespace,
		Package:      svc.Package,
		SourcePath:   sourcePath(svc.Output, svc.Input),
		MetadataView: svc.WantsMetadataView(),
		Logger:       logger,
	})
	if err != nil {
		res.err = err
		return res
	}
	res.diagnostics = compiled.Diagnostics

	if err := os.MkdirAll(svc.Output, 0o755); err != nil {
		res.err = fmt.Errorf("failed to create output directory: %w", err)
		return res
	}

	outputs := []struct {
		name string
		src  []byte
	}{
		{compiled.FileName, compiled.Source},
		{compiled.MetadataFileName, compiled.MetadataSource},
	}
	for _, o := range outputs {
		if o.name == "" {
			continue
		}
		path := filepath.Join(svc.Output, o.name)
		if err := os.WriteFile(path, o.src, 0o644); err != nil {
			res.err = fmt.Errorf("failed to write %s: %w", path, err)
			return res
		}
		res.files = append(res.files, path)
		logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(o.src)))
	}

	if compiled.Formatted {
		removeStale(svc.Output, svc.Namespace, logger)
	}
	return res
}

// sourcePath returns input relative to the output directory, so that the
// go:generate line in the generated header works from that directory.
func sourcePath(output, input string) string {
	rel, err := filepath.Rel(output, input)
	if err != nil {
		return filepath.ToSlash(input)
	}
	return filepath.ToSlash(rel)
}

// removeStale deletes _failed.go files left over from an earlier run.
func removeStale(dir, namespace string, logger *zap.Logger) {
	data, meta := compiler.FileNames(namespace)
	for _, name := range []string{codegen.FailedName(data), codegen.FailedName(meta)} {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("failed to remove stale output", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		logger.Debug("removed stale output", zap.String("path", path))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
