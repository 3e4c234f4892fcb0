package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/sapodata/odatagen/internal/compiler/naming"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// GenerateModule renders the data module: annotation aliases, complex and
// entity types with their constructors, and the container enumerations.
func (g *Generator) GenerateModule() []byte {
	return Render(g.Module())
}

// Module builds the data module without printing it.
func (g *Generator) Module() *File {
	f := &File{Header: g.header(), Package: g.opts.Package}
	imports := make(map[string]bool)

	if len(g.aliases) > 0 {
		imports[importEdmx] = true
		f.Decls = append(f.Decls, &AliasDecl{
			Doc:     "SAP annotation types used by " + g.schema.Namespace + ".",
			Aliases: g.aliases,
		})
	}

	for _, tp := range g.complexTypes {
		f.Decls = append(f.Decls, g.typeStruct(tp, imports))
		f.Decls = append(f.Decls, &FuncDecl{
			Doc:     fmt.Sprintf("%s returns an empty %s.", tp.newFunc, tp.name),
			Name:    tp.newFunc,
			Results: tp.name,
			Body:    []string{"return " + tp.name + "{}"},
		})
		f.Decls = append(f.Decls, parseFunc(tp))
		imports[importOData] = true
	}

	for _, tp := range g.entityTypes {
		f.Decls = append(f.Decls, g.typeStruct(tp, imports))
		f.Decls = append(f.Decls, g.entityConstructor(tp))
		f.Decls = append(f.Decls, parseFunc(tp))
		imports[importOData] = true
		if kp := g.keyPredicate(tp); kp != nil {
			f.Decls = append(f.Decls, kp)
		}
	}

	c, hasContainer := g.schema.DefaultContainer()
	if hasContainer && g.entitySets != nil {
		f.Decls = append(f.Decls, enumDecls(g.entitySets, "entity sets of "+c.Name)...)
	}
	if g.assocs != nil {
		f.Decls = append(f.Decls, enumDecls(g.assocs, "associations of "+g.schema.Namespace)...)
		f.Decls = append(f.Decls, valueDecls(g.assocs, "edmx.Association", func(i int) any {
			return g.schema.Associations[i]
		})...)
	}
	if hasContainer && g.assocSets != nil {
		f.Decls = append(f.Decls, enumDecls(g.assocSets, "association sets of "+c.Name)...)
		f.Decls = append(f.Decls, valueDecls(g.assocSets, "edmx.AssociationSet", func(i int) any {
			return c.AssociationSets[i]
		})...)
	}
	if hasContainer && g.functions != nil {
		f.Decls = append(f.Decls, enumDecls(g.functions, "function imports of "+c.Name)...)
		f.Decls = append(f.Decls, valueDecls(g.functions, "edmx.FunctionImport", func(i int) any {
			return c.FunctionImports[i]
		})...)
	}
	if g.assocs != nil || g.assocSets != nil || g.functions != nil {
		imports[importEdmx] = true
	}
	if g.entitySets != nil || g.assocs != nil || g.assocSets != nil || g.functions != nil {
		imports["fmt"] = true
	}

	f.Imports = slices.Sorted(maps.Keys(imports))
	return f
}

// typeStruct declares the struct of an entity or real complex type. Fields
// follow canonical name order; a field whose name differs from the schema
// name carries an xml rename tag.
func (g *Generator) typeStruct(tp *typePlan, imports map[string]bool) *StructDecl {
	kind := "complex type"
	if tp.entity != nil {
		kind = "entity type"
	}
	d := &StructDecl{
		Doc:  fmt.Sprintf("%s is the %s %s.", tp.name, kind, tp.owner),
		Name: tp.name,
	}
	for i, name := range fieldNames(tp.props, nil) {
		p := &tp.props[i]
		typ := g.resolver.Resolve(tp.owner, p)
		if typ.Import != "" {
			imports[typ.Import] = true
		}
		field := Field{Name: name, Type: typ.Expr, Comment: p.Type}
		if name != p.Name {
			field.Tag = fmt.Sprintf("xml:%q", p.Name)
		}
		d.Fields = append(d.Fields, field)
	}
	return d
}

// fieldNames assigns unique field names to props in order.
func fieldNames(props []edmx.Property, reserved []string) []string {
	fields := naming.NewScope(reserved...)
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = fields.Claim(naming.FieldName(p.Name))
	}
	return out
}

// keyFields returns the field names and properties of the entity key in key
// order. PropertyRefs naming no property are skipped.
func keyFields(tp *typePlan) (names []string, props []*edmx.Property) {
	fields := fieldNames(tp.props, nil)
	for _, ref := range tp.entity.Key.PropertyRefs {
		for i := range tp.props {
			if tp.props[i].Name == ref.Name {
				names = append(names, fields[i])
				props = append(props, &tp.props[i])
				break
			}
		}
	}
	return names, props
}

func (g *Generator) entityConstructor(tp *typePlan) *FuncDecl {
	d := &FuncDecl{
		Doc:     fmt.Sprintf("%s returns a %s with its key set.", tp.newFunc, tp.name),
		Name:    tp.newFunc,
		Results: tp.name,
	}
	fields, props := keyFields(tp)
	params := naming.NewScope()
	var assigns []string
	for i, p := range props {
		name := params.Claim(naming.ParamName(p.Name))
		d.Params = append(d.Params, Param{Name: name, Type: g.resolver.Resolve(tp.owner, p).Expr})
		assigns = append(assigns, fields[i]+": "+name)
	}

	switch len(assigns) {
	case 0:
		d.Doc = fmt.Sprintf("%s returns an empty %s.", tp.newFunc, tp.name)
		d.Body = []string{"return " + tp.name + "{}"}
	case 1:
		d.Body = []string{"return " + tp.name + "{" + assigns[0] + "}"}
	default:
		d.Body = append(d.Body, "return "+tp.name+"{")
		for _, a := range assigns {
			d.Body = append(d.Body, "\t"+a+",")
		}
		d.Body = append(d.Body, "}")
	}
	return d
}

func parseFunc(tp *typePlan) *FuncDecl {
	return &FuncDecl{
		Doc:     fmt.Sprintf("%s decodes a %s from an m:properties element.", tp.parse, tp.name),
		Name:    tp.parse,
		Params:  []Param{{Name: "text", Type: "string"}},
		Results: "(" + tp.name + ", error)",
		Body: []string{
			"var v " + tp.name,
			"if err := odata.DecodeProperties([]byte(text), &v); err != nil {",
			"\treturn " + tp.name + "{}, err",
			"}",
			"return v, nil",
		},
	}
}

// keyPredicate builds the KeyPredicate method, or nil for an entity type
// without a usable key.
func (g *Generator) keyPredicate(tp *typePlan) *FuncDecl {
	fields, props := keyFields(tp)
	if len(props) == 0 {
		return nil
	}
	recv := receiver(tp.name)
	d := &FuncDecl{
		Doc:     "KeyPredicate returns the key segment of the entity URI, e.g. " + examplePredicate(props) + ".",
		Recv:    recv + " " + tp.name,
		Name:    "KeyPredicate",
		Results: "string",
	}
	d.Body = append(d.Body, "return odata.KeyPredicate(")
	for i, p := range props {
		d.Body = append(d.Body, fmt.Sprintf("\todata.KeyValue{Name: %q, Value: %s.%s},", p.Name, recv, fields[i]))
	}
	d.Body = append(d.Body, ")")
	return d
}

func examplePredicate(props []*edmx.Property) string {
	if len(props) == 1 {
		return "('...')"
	}
	s := "("
	for i, p := range props {
		if i > 0 {
			s += ","
		}
		s += p.Name + "='...'"
	}
	return s + ")"
}

// enumDecls declares an enumeration and its lookup helpers.
func enumDecls(e *enumPlan, what string) []Decl {
	recv := receiver(e.name)
	table := enumTable(e.name)

	list := []string{"return []" + e.name + "{"}
	for _, v := range e.variants {
		list = append(list, "\t"+v.Name+",")
	}
	list = append(list, "}")

	return []Decl{
		&EnumDecl{
			Doc:      fmt.Sprintf("%s enumerates the %s.", e.name, what),
			Name:     e.name,
			Variants: e.variants,
		},
		&FuncDecl{
			Doc:     fmt.Sprintf("%s returns every %s in declaration order.", e.list, e.name),
			Name:    e.list,
			Results: "[]" + e.name,
			Body:    list,
		},
		&FuncDecl{
			Doc:     "Name returns the name declared in the schema.",
			Recv:    recv + " " + e.name,
			Name:    "Name",
			Results: "string",
			Body: []string{
				fmt.Sprintf("if %s < 0 || int(%s) >= len(%s) {", recv, recv, table),
				fmt.Sprintf("\treturn fmt.Sprintf(%s, int(%s))", strconv.Quote(e.name+"(%d)"), recv),
				"}",
				fmt.Sprintf("return %s[%s]", table, recv),
			},
		},
		&FuncDecl{
			Doc:     "String implements fmt.Stringer.",
			Recv:    recv + " " + e.name,
			Name:    "String",
			Results: "string",
			Body:    []string{"return " + recv + ".Name()"},
		},
		&FuncDecl{
			Doc:     fmt.Sprintf("%s returns the declared names in declaration order.", e.names),
			Name:    e.names,
			Results: "[]string",
			Body:    []string{"return append([]string(nil), " + table + "[:]...)"},
		},
		&FuncDecl{
			Doc:     fmt.Sprintf("%s returns the %s declared as name.", e.parse, e.name),
			Name:    e.parse,
			Params:  []Param{{Name: "name", Type: "string"}},
			Results: "(" + e.name + ", bool)",
			Body: []string{
				"for i, n := range " + table + " {",
				"\tif n == name {",
				"\t\treturn " + e.name + "(i), true",
				"\t}",
				"}",
				"return 0, false",
			},
		},
	}
}

// valueDecls declares the Value method of an enumeration and one accessor
// per variant returning the schema element by value.
func valueDecls(e *enumPlan, typ string, element func(i int) any) []Decl {
	recv := receiver(e.name)
	value := &FuncDecl{
		Doc:     "Value returns the schema element " + recv + " stands for.",
		Recv:    recv + " " + e.name,
		Name:    "Value",
		Results: typ,
		Body:    []string{"switch " + recv + " {"},
	}
	for i, v := range e.variants {
		value.Body = append(value.Body,
			"case "+v.Name+":",
			"\treturn "+e.accessors[i]+"()",
		)
	}
	value.Body = append(value.Body, "}", "return "+typ+"{}")

	decls := []Decl{value}
	for i, v := range e.variants {
		decls = append(decls, &FuncDecl{
			Doc:     fmt.Sprintf("%s returns %s.", e.accessors[i], v.Raw),
			Name:    e.accessors[i],
			Results: typ,
			Body:    wrap("return ", literal(element(i)), ""),
		})
	}
	return decls
}
