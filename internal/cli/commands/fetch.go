package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/cli/config"
	"github.com/sapodata/odatagen/internal/cli/ui"
	"github.com/sapodata/odatagen/internal/fetch"
	"github.com/sapodata/odatagen/pkg/edmx"
	"github.com/sapodata/odatagen/pkg/odata"
)

type fetchOptions struct {
	*globalOptions
	top      int
	skip     int
	selects  []string
	all      bool
	metadata bool
	output   string
}

// NewFetchCommand creates the fetch command
func NewFetchCommand(global *globalOptions) *cobra.Command {
	opts := &fetchOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "fetch <service> [entity-set]",
		Short: "Read an entity set or $metadata from a live service",
		Long: `Read one page of an entity set from the service's base_url and print its
properties as a table, or download the service's $metadata document.

Credentials are read from SAP_USER and SAP_PASSWORD, or from a .env file
next to odatagen.yaml.

Examples:
  odatagen fetch gwsample BusinessPartnerSet --top 5
  odatagen fetch gwsample ProductSet --select ProductID,Name --all
  odatagen fetch gwsample --metadata -o metadata/gwsample_basic.xml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.top, "top", 20, "Maximum entries per page ($top)")
	cmd.Flags().IntVar(&opts.skip, "skip", 0, "Entries to skip ($skip)")
	cmd.Flags().StringSliceVar(&opts.selects, "select", nil, "Properties to select ($select)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Follow next links until the last page")
	cmd.Flags().BoolVar(&opts.metadata, "metadata", false, "Download $metadata instead of an entity set")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write $metadata to this file instead of stdout")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *fetchOptions, args []string) error {
	switch {
	case opts.metadata && len(args) != 1:
		return fmt.Errorf("--metadata takes only a service name")
	case !opts.metadata && len(args) != 2:
		return fmt.Errorf("fetch needs a service and an entity set")
	}

	cfg, err := opts.config()
	if err != nil {
		return err
	}
	svc, ok := cfg.Service(args[0])
	if !ok {
		return ui.NotFound("service", args[0], cfg.ServiceNames())
	}
	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newFetchClient(cfg, svc, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.metadata {
		return downloadMetadata(cmd.Context(), client, out, opts.output, opts.noColor)
	}

	set := args[1]
	if known := knownEntitySets(svc); len(known) > 0 && !slices.Contains(known, set) {
		return ui.NotFound("entity set", set, known)
	}
	return fetchEntitySet(cmd.Context(), client, out, set, fetch.Query{
		Top:    opts.top,
		Skip:   opts.skip,
		Select: opts.selects,
	}, opts.all, opts.noColor)
}

func newFetchClient(cfg *config.Config, svc config.Service, logger *zap.Logger) (*fetch.Client, error) {
	if svc.BaseURL == "" {
		return nil, fmt.Errorf("service %q has no base_url; set it on the service or under http", svc.Name)
	}
	creds, err := config.LoadCredentials(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return fetch.New(fetch.Config{
		BaseURL:   svc.BaseURL,
		Username:  creds.User,
		Password:  creds.Password,
		SAPClient: svc.SAPClient,
		Timeout:   cfg.HTTP.Timeout,
		Retries:   cfg.HTTP.Retries,
		Logger:    logger.With(zap.String("service", svc.Name)),
	})
}

// knownEntitySets lists the entity sets of the service's local metadata
// document. It returns nil when the document cannot be read.
func knownEntitySets(svc config.Service) []string {
	doc, err := os.ReadFile(svc.Input)
	if err != nil {
		return nil
	}
	parsed, err := edmx.Parse(doc)
	if err != nil {
		return nil
	}
	schema, ok := parsed.DataServices.Schema(svc.Namespace)
	if !ok {
		return nil
	}
	c, ok := schema.DefaultContainer()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(c.EntitySets))
	for _, s := range c.EntitySets {
		names = append(names, s.Name)
	}
	return names
}

func downloadMetadata(ctx context.Context, client *fetch.Client, out io.Writer, path string, noColor bool) error {
	doc, err := client.Metadata(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		_, err := out.Write(doc)
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ui.WriteSuccess(out, fmt.Sprintf("wrote %s (%d bytes)", path, len(doc)), noColor)
	return nil
}

// maxPages bounds how many pages --all follows.
const maxPages = 1000

func fetchEntitySet(ctx context.Context, client *fetch.Client, out io.Writer, set string, q fetch.Query, all, noColor bool) error {
	feed, err := client.EntitySet(ctx, set, q)
	if err != nil {
		return err
	}
	payloads := feed.Payloads()
	followed := make(map[string]bool)
	for pages := 1; all; pages++ {
		link, ok := feed.NextLink()
		if !ok {
			break
		}
		if followed[link] {
			return fmt.Errorf("%s: next link %q repeats after %d pages", set, link, pages)
		}
		if pages >= maxPages {
			return fmt.Errorf("%s: stopped after %d pages", set, maxPages)
		}
		followed[link] = true
		feed, err = client.Next(ctx, feed)
		if err != nil {
			return err
		}
		if feed == nil {
			break
		}
		payloads = append(payloads, feed.Payloads()...)
	}

	columns := propertyColumns(payloads)
	t := ui.NewTable(out, noColor, columns...)
	for _, p := range payloads {
		row := make([]string, len(columns))
		for i, name := range columns {
			if v, ok := p.Get(name); ok {
				row[i] = formatValue(v)
			}
		}
		t.AddRow(row...)
	}
	t.Render()
	fmt.Fprintf(out, "\n%d %s\n", t.Len(), pluralEntries(t.Len()))
	return nil
}

// propertyColumns returns every property name in first-seen order.
func propertyColumns(payloads []odata.Properties) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, p := range payloads {
		for _, name := range p.Names() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	return columns
}

// formatValue renders a property for a table cell. Complex values render as
// {Name=value, ...}.
func formatValue(v odata.Value) string {
	switch {
	case v.Null:
		return "null"
	case v.IsComplex():
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, c.Name+"="+formatValue(c))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Text
	}
}

func pluralEntries(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
