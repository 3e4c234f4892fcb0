package codegen

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/sapodata/odatagen/internal/compiler/naming"
)

// printer writes Go source line by line with tab indentation.
type printer struct {
	buf    bytes.Buffer
	indent int
}

// Render prints f. The output is deterministic for a given File.
func Render(f *File) []byte {
	p := &printer{}
	for _, line := range f.Header {
		p.writeLine("%s", line)
	}
	if len(f.Header) > 0 {
		p.writeLine("")
	}
	p.writeLine("package %s", f.Package)

	if len(f.Imports) > 0 {
		p.writeLine("")
		p.writeImports(f.Imports)
	}

	for _, d := range f.Decls {
		p.writeLine("")
		switch d := d.(type) {
		case *AliasDecl:
			p.writeAliases(d)
		case *StructDecl:
			p.writeStruct(d)
		case *EnumDecl:
			p.writeEnum(d)
		case *FuncDecl:
			p.writeFunc(d)
		}
	}
	return p.buf.Bytes()
}

// enumTable names the unexported raw-name table of an enum.
func enumTable(enum string) string {
	return naming.ParamName(enum) + "Names"
}

// writeLine writes a formatted line with proper indentation
func (p *printer) writeLine(format string, args ...any) {
	line := format
	if len(args) > 0 {
		line = fmt.Sprintf(format, args...)
	}
	if line == "" {
		p.buf.WriteString("\n")
		return
	}
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("\t")
	}
	p.buf.WriteString(line)
	p.buf.WriteString("\n")
}

func (p *printer) writeDoc(doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			p.writeLine("//")
			continue
		}
		p.writeLine("// %s", line)
	}
}

// writeImports writes the import block, standard library first.
func (p *printer) writeImports(imports []string) {
	var stdlib, external []string
	for _, imp := range imports {
		if strings.Contains(imp, ".") {
			external = append(external, imp)
		} else {
			stdlib = append(stdlib, imp)
		}
	}
	slices.Sort(stdlib)
	slices.Sort(external)

	p.writeLine("import (")
	p.indent++
	for _, imp := range slices.Compact(stdlib) {
		p.writeLine("%q", imp)
	}
	if len(stdlib) > 0 && len(external) > 0 {
		p.writeLine("")
	}
	for _, imp := range slices.Compact(external) {
		p.writeLine("%q", imp)
	}
	p.indent--
	p.writeLine(")")
}

func (p *printer) writeAliases(d *AliasDecl) {
	p.writeDoc(d.Doc)
	p.writeLine("type (")
	p.indent++
	width := 0
	for _, a := range d.Aliases {
		width = max(width, len(a.Name))
	}
	for _, a := range d.Aliases {
		p.writeLine("%s%s = %s", a.Name, strings.Repeat(" ", width-len(a.Name)), a.Target)
	}
	p.indent--
	p.writeLine(")")
}

func (p *printer) writeStruct(d *StructDecl) {
	p.writeDoc(d.Doc)
	if len(d.Fields) == 0 {
		p.writeLine("type %s struct{}", d.Name)
		return
	}
	p.writeLine("type %s struct {", d.Name)
	p.indent++

	maxName, maxType := 0, 0
	for _, f := range d.Fields {
		maxName = max(maxName, len(f.Name))
		if f.Tag != "" || f.Comment != "" {
			maxType = max(maxType, len(f.Type))
		}
	}
	for _, f := range d.Fields {
		var b strings.Builder
		b.WriteString(f.Name)
		b.WriteString(strings.Repeat(" ", maxName-len(f.Name)+1))
		b.WriteString(f.Type)
		if f.Tag != "" || f.Comment != "" {
			b.WriteString(strings.Repeat(" ", maxType-len(f.Type)))
		}
		if f.Tag != "" {
			b.WriteString(" `")
			b.WriteString(f.Tag)
			b.WriteString("`")
		}
		if f.Comment != "" {
			b.WriteString(" // ")
			b.WriteString(f.Comment)
		}
		p.writeLine("%s", b.String())
	}

	p.indent--
	p.writeLine("}")
}

func (p *printer) writeEnum(d *EnumDecl) {
	p.writeDoc(d.Doc)
	p.writeLine("type %s int", d.Name)
	if len(d.Variants) == 0 {
		return
	}

	p.writeLine("")
	p.writeLine("const (")
	p.indent++
	for i, v := range d.Variants {
		if i == 0 {
			p.writeLine("%s %s = iota", v.Name, d.Name)
			continue
		}
		p.writeLine("%s", v.Name)
	}
	p.indent--
	p.writeLine(")")

	p.writeLine("")
	p.writeLine("var %s = [...]string{", enumTable(d.Name))
	p.indent++
	for _, v := range d.Variants {
		p.writeLine("%s: %q,", v.Name, v.Raw)
	}
	p.indent--
	p.writeLine("}")
}

func (p *printer) writeFunc(d *FuncDecl) {
	p.writeDoc(d.Doc)

	params := make([]string, 0, len(d.Params))
	for _, prm := range d.Params {
		params = append(params, prm.Name+" "+prm.Type)
	}
	var sig strings.Builder
	sig.WriteString("func ")
	if d.Recv != "" {
		sig.WriteString("(" + d.Recv + ") ")
	}
	sig.WriteString(d.Name)
	sig.WriteString("(" + strings.Join(params, ", ") + ")")
	if d.Results != "" {
		sig.WriteString(" " + d.Results)
	}

	if len(d.Body) == 0 {
		p.writeLine("%s {}", sig.String())
		return
	}
	p.writeLine("%s {", sig.String())
	p.indent++
	for _, line := range d.Body {
		p.writeLine("%s", line)
	}
	p.indent--
	p.writeLine("}")
}
