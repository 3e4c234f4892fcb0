package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/cli/ui"
	"github.com/sapodata/odatagen/internal/compiler"
	cerrors "github.com/sapodata/odatagen/internal/compiler/errors"
	"github.com/sapodata/odatagen/internal/compiler/naming"
	"github.com/sapodata/odatagen/internal/compiler/resolve"
	"github.com/sapodata/odatagen/pkg/edmx"
)

type inspectOptions struct {
	*globalOptions
	input     string
	namespace string
	json      bool
}

// NewInspectCommand creates the inspect command
func NewInspectCommand(global *globalOptions) *cobra.Command {
	opts := &inspectOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "inspect [service]",
		Short: "Show how a metadata document will be generated",
		Long: `Print the entity sets, associations, complex types and property types of
one schema, together with every diagnostic the compiler would report.

Examples:
  odatagen inspect -i metadata.xml -n GWSAMPLE_BASIC
  odatagen inspect gwsample --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Metadata document to inspect")
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Schema namespace")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")

	return cmd
}

type entitySetInfo struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
	Label      string `json:"label,omitempty"`
	Creatable  bool   `json:"creatable"`
	Updatable  bool   `json:"updatable"`
	Deletable  bool   `json:"deletable"`
	Pageable   bool   `json:"pageable"`
}

type associationInfo struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
	Set        string `json:"set,omitempty"`
}

type complexTypeInfo struct {
	Name   string `json:"name"`
	GoType string `json:"go_type"`
	Alias  bool   `json:"alias"`
	Target string `json:"target,omitempty"`
}

type propertyInfo struct {
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	GoType  string `json:"go_type"`
	Decoder string `json:"decoder,omitempty"`
	Key     bool   `json:"key,omitempty"`
}

// inspectReport is everything inspect prints.
type inspectReport struct {
	Namespace    string            `json:"namespace"`
	Container    string            `json:"container,omitempty"`
	EntitySets   []entitySetInfo   `json:"entity_sets"`
	Associations []associationInfo `json:"associations"`
	ComplexTypes []complexTypeInfo `json:"complex_types"`
	Properties   []propertyInfo    `json:"properties"`
	Diagnostics  cerrors.ErrorList `json:"diagnostics"`
}

func runInspect(cmd *cobra.Command, opts *inspectOptions, args []string) error {
	input, namespace := opts.input, opts.namespace
	if len(args) == 1 {
		if input != "" {
			return fmt.Errorf("--input cannot be combined with a service name")
		}
		cfg, err := opts.config()
		if err != nil {
			return err
		}
		svc, ok := cfg.Service(args[0])
		if !ok {
			return ui.NotFound("service", args[0], cfg.ServiceNames())
		}
		input = svc.Input
		namespace = firstNonEmpty(namespace, svc.Namespace)
	}
	if input == "" || namespace == "" {
		return fmt.Errorf("inspect needs a service name or both --input and --namespace")
	}

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report, err := inspectFile(input, namespace, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	report.render(out, opts.noColor)
	return nil
}

// inspectFile parses and validates one schema and resolves every property
// the way the generator would.
func inspectFile(path, namespace string, logger *zap.Logger) (*inspectReport, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.NewReadFailed(path, err)
	}
	parsed, err := edmx.Parse(doc)
	if err != nil {
		return nil, cerrors.NewParseFailed(err).WithFile(path)
	}
	schema, ok := parsed.DataServices.Schema(namespace)
	if !ok {
		return nil, cerrors.NewNamespaceNotFound(namespace, parsed.DataServices.Namespaces()).WithFile(path)
	}

	report := &inspectReport{Namespace: schema.Namespace}
	report.Diagnostics = compiler.Validate(schema, logger)

	if c, ok := schema.DefaultContainer(); ok {
		report.Container = c.Name
		for _, set := range c.EntitySets {
			report.EntitySets = append(report.EntitySets, entitySetInfo{
				Name:       set.Name,
				EntityType: schema.Unqualify(set.EntityType),
				Label:      set.Label,
				Creatable:  bool(set.Creatable),
				Updatable:  bool(set.Updatable),
				Deletable:  bool(set.Deletable),
				Pageable:   bool(set.Pageable),
			})
		}
		sets := make(map[string]string, len(c.AssociationSets))
		for _, as := range c.AssociationSets {
			sets[naming.NormalizeAssociation(schema.Unqualify(as.Association))] = as.Name
		}
		for _, a := range schema.Associations {
			norm := naming.NormalizeAssociation(a.Name)
			report.Associations = append(report.Associations, associationInfo{
				Name: a.Name, Normalized: norm, Set: sets[norm],
			})
		}
	} else {
		for _, a := range schema.Associations {
			report.Associations = append(report.Associations, associationInfo{
				Name: a.Name, Normalized: naming.NormalizeAssociation(a.Name),
			})
		}
	}

	ix := resolve.NewComplexIndex(schema)
	resolver := resolve.NewResolver(ix, logger)
	for _, ct := range ix.Real() {
		report.ComplexTypes = append(report.ComplexTypes, complexTypeInfo{Name: ct.Name, GoType: ix.GoName(ct.Name)})
	}
	for _, ct := range ix.Aliases() {
		info := complexTypeInfo{Name: ct.Name, GoType: naming.TypeName(ct.Name), Alias: true}
		if target, ok := ix.Target(ct.Name); ok {
			info.Target = resolver.Resolve(schema.Namespace+"."+ct.Name, target).Expr
		}
		report.ComplexTypes = append(report.ComplexTypes, info)
	}

	for i := range schema.EntityTypes {
		et := &schema.EntityTypes[i]
		report.addProperties(resolver, schema.Namespace+"."+et.Name, et.Name, et.Properties, et.IsKey)
	}
	for _, ct := range ix.Real() {
		report.addProperties(resolver, schema.Namespace+"."+ct.Name, ct.Name, ct.Properties, nil)
	}

	report.Diagnostics = append(report.Diagnostics, resolver.Diagnostics()...).WithFile(path)
	return report, nil
}

func (r *inspectReport) addProperties(resolver *resolve.Resolver, owner, typeName string, props []edmx.Property, isKey func(string) bool) {
	for i := range props {
		p := &props[i]
		t := resolver.Resolve(owner, p)
		r.Properties = append(r.Properties, propertyInfo{
			Owner:   typeName,
			Name:    p.Name,
			Type:    p.Type,
			GoType:  t.Expr,
			Decoder: t.Decoder.Func(),
			Key:     isKey != nil && isKey(p.Name),
		})
	}
}

func (r *inspectReport) render(w io.Writer, noColor bool) {
	summary := ui.NewKeyValueTable(w, noColor)
	summary.AddRow("Namespace", r.Namespace)
	if r.Container != "" {
		summary.AddRow("Container", r.Container)
	}
	summary.AddRow("Entity sets", strconv.Itoa(len(r.EntitySets)))
	summary.AddRow("Associations", strconv.Itoa(len(r.Associations)))
	summary.AddRow("Complex types", strconv.Itoa(len(r.ComplexTypes)))
	summary.AddRow("Diagnostics", ui.Summary(r.Diagnostics))
	summary.Render()

	if len(r.EntitySets) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Entity sets", noColor)
		t := ui.NewTable(w, noColor, "NAME", "ENTITY TYPE", "CRUD", "PAGEABLE", "LABEL")
		for _, s := range r.EntitySets {
			t.AddRow(s.Name, s.EntityType, crud(s), yesNo(s.Pageable), s.Label)
		}
		t.Render()
	}

	if len(r.Associations) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Associations", noColor)
		t := ui.NewTable(w, noColor, "NAME", "NORMALIZED", "SET")
		for _, a := range r.Associations {
			t.AddRow(a.Name, a.Normalized, a.Set)
		}
		t.Render()
	}

	if len(r.ComplexTypes) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Complex types", noColor)
		t := ui.NewTable(w, noColor, "NAME", "GO TYPE", "KIND", "TARGET")
		for _, c := range r.ComplexTypes {
			kind := "struct"
			if c.Alias {
				kind = "alias"
			}
			t.AddRow(c.Name, c.GoType, kind, c.Target)
		}
		t.Render()
	}

	if len(r.Properties) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Properties", noColor)
		t := ui.NewTable(w, noColor, "TYPE", "PROPERTY", "EDM TYPE", "GO TYPE", "DECODER")
		for _, p := range r.Properties {
			name := p.Name
			if p.Key {
				name += " (key)"
			}
			t.AddRow(p.Owner, name, p.Type, p.GoType, p.Decoder)
		}
		t.Render()
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Diagnostics", noColor)
		ui.WriteDiagnostics(w, r.Diagnostics, noColor)
	}
}

// crud renders the creatable, updatable and deletable flags as e.g. "C-D".
func crud(s entitySetInfo) string {
	flags := []byte("---")
	if s.Creatable {
		flags[0] = 'C'
	}
	if s.Updatable {
		flags[1] = 'U'
	}
	if s.Deletable {
		flags[2] = 'D'
	}
	return string(flags)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
