package codegen

import (
	"fmt"

	"github.com/sapodata/odatagen/internal/compiler/resolve"
)

// GenerateMetadataModule renders the metadata view: one descriptor struct
// per entity and real complex type, filled by a Get<T>Metadata getter.
func (g *Generator) GenerateMetadataModule() []byte {
	return Render(g.MetadataModule())
}

// MetadataModule builds the metadata view without printing it.
func (g *Generator) MetadataModule() *File {
	f := &File{Header: g.header()[:1], Package: g.opts.Package}
	for _, tp := range g.complexTypes {
		f.Decls = append(f.Decls, g.metadataDecls(tp)...)
	}
	for _, tp := range g.entityTypes {
		f.Decls = append(f.Decls, g.metadataDecls(tp)...)
	}
	if len(f.Decls) > 0 {
		f.Imports = []string{importEdmx}
	}
	return f
}

// metadataDecls declares <T>Metadata and its getter. Properties typed with
// a complex type carry the complex declaration, properties typed with an
// entity type keep their property descriptor, and a type missing from the
// schema is reported and its property left out.
func (g *Generator) metadataDecls(tp *typePlan) []Decl {
	var reserved []string
	if tp.entity != nil {
		reserved = []string{"Key"}
	}

	st := &StructDecl{
		Doc:  fmt.Sprintf("%s describes the properties of %s.", tp.meta, tp.name),
		Name: tp.meta,
	}
	body := []string{"return " + tp.meta + "{"}
	if tp.entity != nil {
		st.Fields = append(st.Fields, Field{Name: "Key", Type: "[]edmx.PropertyRef"})
		refs := tp.entity.Key.PropertyRefs
		if len(refs) > 0 {
			body = append(body, indent(wrap("Key: ", literal(refs), ","))...)
		}
	}

	for i, name := range fieldNames(tp.props, reserved) {
		p := &tp.props[i]
		var value any = *p
		typ := "edmx.Property"
		if ref := resolve.Classify(p); ref.Kind == resolve.KindComplex {
			ix := g.resolver.Index()
			ct, ok := ix.Lookup(ref.Name)
			_, entity := ix.EntityGoName(ref.Name)
			switch {
			case ref.Namespace != ix.Namespace() || (!ok && !entity):
				g.resolver.ReportMissingComplex(tp.owner, p)
				continue
			case ok:
				value, typ = *ct, "edmx.ComplexType"
			}
		}
		st.Fields = append(st.Fields, Field{Name: name, Type: typ})
		body = append(body, indent(wrap(name+": ", literal(value), ","))...)
	}
	body = append(body, "}")

	return []Decl{
		st,
		&FuncDecl{
			Doc:     fmt.Sprintf("%s returns the schema descriptors of %s.", tp.getMeta, tp.owner),
			Name:    tp.getMeta,
			Results: tp.meta,
			Body:    body,
		},
	}
}
