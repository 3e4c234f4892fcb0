package codegen

// File is a generated Go source file before printing.
type File struct {
	// Header lines are written as // comments above the package clause.
	Header  []string
	Package string
	Imports []string
	Decls   []Decl
}

// Decl is a top-level declaration.
type Decl interface {
	decl()
}

// AliasDecl is a grouped block of type aliases.
type AliasDecl struct {
	Doc     string
	Aliases []Alias
}

// Alias declares Name = Target.
type Alias struct {
	Name   string
	Target string
}

// StructDecl is a named struct type.
type StructDecl struct {
	Doc    string
	Name   string
	Fields []Field
}

// Field is a struct field. Tag is written without backquotes.
type Field struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

// EnumDecl is an int-backed enumeration. The printer emits the type, one
// constant per variant and an unexported table of raw names.
type EnumDecl struct {
	Doc      string
	Name     string
	Variants []Variant
}

// Variant is an enum constant and the raw schema name it stands for.
type Variant struct {
	Name string
	Raw  string
}

// FuncDecl is a function or method. Body lines are relative to the body's
// indentation and may carry extra leading tabs.
type FuncDecl struct {
	Doc     string
	Recv    string
	Name    string
	Params  []Param
	Results string
	Body    []string
}

// Param is a function parameter.
type Param struct {
	Name string
	Type string
}

func (*AliasDecl) decl()  {}
func (*StructDecl) decl() {}
func (*EnumDecl) decl()   {}
func (*FuncDecl) decl()   {}
