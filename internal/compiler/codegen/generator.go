// Package codegen generates idiomatic Go code from an OData schema.
// It turns entity and complex types into structs and the entity container
// into enumerations with accessor functions.
package codegen

import (
	"slices"
	"strings"

	"github.com/sapodata/odatagen/internal/compiler/naming"
	"github.com/sapodata/odatagen/internal/compiler/resolve"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// Import paths used by generated code.
const (
	importEdmx  = "github.com/sapodata/odatagen/pkg/edmx"
	importOData = resolve.ImportOData
)

// Options configures a Generator.
type Options struct {
	// Package is the package clause of the generated files.
	Package string
	// SourcePath is the metadata document the files are generated from,
	// relative to the output directory. It is recorded in the header and in
	// the go:generate line.
	SourcePath string
	// MetadataView is repeated in the go:generate line.
	MetadataView bool
}

// Generator emits the data module and the metadata-view module of one
// schema. Declaration names are fixed when the generator is created, so
// both modules agree on them and can share a package.
type Generator struct {
	schema   *edmx.Schema
	resolver *resolve.Resolver
	opts     Options

	complexTypes []*typePlan
	entityTypes  []*typePlan
	aliases      []Alias
	entitySets   *enumPlan
	assocs       *enumPlan
	assocSets    *enumPlan
	functions    *enumPlan
}

// typePlan holds the generated names of one entity or real complex type.
type typePlan struct {
	raw     string
	owner   string
	name    string
	newFunc string
	parse   string
	meta    string
	getMeta string
	props   []edmx.Property
	entity  *edmx.EntityType
}

// enumPlan holds the generated names of one container enumeration.
type enumPlan struct {
	name      string
	list      string
	names     string
	parse     string
	variants  []Variant
	accessors []string
}

// NewGenerator plans the declarations of schema. The resolver must have
// been built from the same schema.
func NewGenerator(schema *edmx.Schema, resolver *resolve.Resolver, opts Options) *Generator {
	g := &Generator{schema: schema, resolver: resolver, opts: opts}
	ix := resolver.Index()
	names := naming.NewScope()

	for _, ct := range ix.Real() {
		g.complexTypes = append(g.complexTypes, &typePlan{
			raw:   ct.Name,
			owner: schema.Namespace + "." + ct.Name,
			name:  names.Claim(ix.GoName(ct.Name)),
			props: naming.SortProperties(ct.Properties),
		})
	}
	for _, et := range ix.EntityTypes() {
		name, _ := ix.EntityGoName(et.Name)
		g.entityTypes = append(g.entityTypes, &typePlan{
			raw:    et.Name,
			owner:  schema.Namespace + "." + et.Name,
			name:   names.Claim(name),
			props:  naming.SortProperties(et.Properties),
			entity: et,
		})
	}

	for _, sub := range annotationTypes(schema) {
		g.aliases = append(g.aliases, Alias{Name: names.Claim(sub), Target: "edmx." + sub})
	}

	var sets, assocSets, functions []string
	if c, ok := schema.DefaultContainer(); ok {
		for _, es := range c.EntitySets {
			sets = append(sets, es.Name)
		}
		for _, as := range c.AssociationSets {
			assocSets = append(assocSets, as.Name)
		}
		for _, fi := range c.FunctionImports {
			functions = append(functions, fi.Name)
		}
	}
	var assocs []string
	for _, a := range schema.Associations {
		assocs = append(assocs, a.Name)
	}
	g.entitySets = planEnum(names, "EntitySet", sets, false, nil)
	g.assocs = planEnum(names, "Association", assocs, true, naming.NormalizeAssociation)
	g.assocSets = planEnum(names, "AssociationSet", assocSets, true, naming.NormalizeAssociation)
	g.functions = planEnum(names, "FunctionImport", functions, true, nil)

	for _, tp := range slices.Concat(g.complexTypes, g.entityTypes) {
		tp.newFunc = names.Claim("New" + tp.name)
		tp.parse = names.Claim("Parse" + tp.name)
		tp.meta = names.Claim(tp.name + "Metadata")
		tp.getMeta = names.Claim("Get" + tp.name + "Metadata")
	}
	return g
}

func planEnum(names *naming.Scope, enum string, raw []string, accessors bool, normalize func(string) string) *enumPlan {
	if len(raw) == 0 {
		return nil
	}
	e := &enumPlan{name: names.Claim(enum)}
	e.list = names.Claim(e.name + "s")
	e.names = names.Claim(e.name + "Names")
	e.parse = names.Claim("Parse" + e.name)
	for _, r := range raw {
		key := r
		if normalize != nil {
			key = normalize(r)
		}
		e.variants = append(e.variants, Variant{Name: names.Claim(naming.VariantName(e.name, key)), Raw: r})
		if accessors {
			e.accessors = append(e.accessors, names.Claim(naming.TypeName(key)+e.name))
		}
	}
	return e
}

// annotationTypes lists the SAP annotation enumerations the schema sets at
// least once, sorted.
func annotationTypes(s *edmx.Schema) []string {
	used := make(map[string]bool)
	mark := func(name string, set bool) {
		if set {
			used[name] = true
		}
	}
	props := func(ps []edmx.Property) {
		for _, p := range ps {
			mark("PropertySemantics", p.Semantics != "")
			mark("FilterRestriction", p.FilterRestriction != "")
			mark("FieldControl", p.FieldControl != "")
			mark("DisplayFormat", p.DisplayFormat != "")
			mark("AggregationRole", p.AggregationRole != "")
			mark("ParameterKind", p.Parameter != "")
			mark("ValueList", p.ValueList != "")
		}
	}
	for _, et := range s.EntityTypes {
		mark("EntityTypeSemantics", et.Semantics != "")
		props(et.Properties)
	}
	for _, ct := range s.ComplexTypes {
		props(ct.Properties)
	}
	for _, c := range s.EntityContainers {
		for _, es := range c.EntitySets {
			mark("EntitySetSemantics", es.Semantics != "")
		}
	}

	out := make([]string, 0, len(used))
	for name := range used {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// header returns the generated-code marker and the re-run hint.
func (g *Generator) header() []string {
	src := g.opts.SourcePath
	if src == "" {
		return []string{"// Code generated by odatagen; DO NOT EDIT."}
	}
	src = strings.ReplaceAll(src, "\\", "/")
	hint := "//go:generate odatagen generate -i " + src + " -n " + g.schema.Namespace + " -p " + g.opts.Package + " -o ."
	if g.opts.MetadataView {
		hint += " --metadata-view"
	}
	return []string{
		"// Code generated by odatagen from " + src + "; DO NOT EDIT.",
		"",
		hint,
	}
}

// receiver returns the receiver name used for methods of typeName.
func receiver(typeName string) string {
	return strings.ToLower(typeName[0:1])
}
