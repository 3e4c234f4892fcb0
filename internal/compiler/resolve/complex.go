package resolve

import (
	"cmp"
	"slices"

	"github.com/sapodata/odatagen/internal/compiler/naming"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// ComplexIndex records, once per schema, which complex types get their own
// declaration and the Go name of every generated struct. A complex type is
// real when it has more than one property and its Go name is not a builtin
// such as String. Every other complex type is an alias for its first
// property.
//
// Struct names are claimed real complex types first, then entity types, each
// group ordered by canonical name, so two schema names that canonicalize
// alike get distinct Go names.
type ComplexIndex struct {
	namespace   string
	order       []string
	types       map[string]*edmx.ComplexType
	real        map[string]bool
	goNames     map[string]string
	entities    []*edmx.EntityType
	entityNames map[string]string
}

// NewComplexIndex classifies the complex types of s and names its structs.
func NewComplexIndex(s *edmx.Schema) *ComplexIndex {
	ix := &ComplexIndex{
		namespace:   s.Namespace,
		types:       make(map[string]*edmx.ComplexType, len(s.ComplexTypes)),
		real:        make(map[string]bool, len(s.ComplexTypes)),
		goNames:     make(map[string]string),
		entityNames: make(map[string]string, len(s.EntityTypes)),
	}
	for i := range s.ComplexTypes {
		ct := &s.ComplexTypes[i]
		ix.order = append(ix.order, ct.Name)
		ix.types[ct.Name] = ct
		ix.real[ct.Name] = len(ct.Properties) > 1 && !naming.IsReservedTypeName(naming.TypeName(ct.Name))
	}

	names := naming.NewScope()
	for _, ct := range ix.Real() {
		ix.goNames[ct.Name] = names.Claim(naming.TypeName(ct.Name))
	}
	for i := range s.EntityTypes {
		ix.entities = append(ix.entities, &s.EntityTypes[i])
	}
	slices.SortStableFunc(ix.entities, func(a, b *edmx.EntityType) int {
		return byTypeName(a.Name, b.Name)
	})
	for _, et := range ix.entities {
		ix.entityNames[et.Name] = names.Claim(naming.TypeName(et.Name))
	}
	return ix
}

func byTypeName(a, b string) int {
	if c := cmp.Compare(naming.TypeName(a), naming.TypeName(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Namespace returns the schema namespace the index was built from.
func (ix *ComplexIndex) Namespace() string {
	return ix.namespace
}

// Lookup finds a complex type by unqualified name.
func (ix *ComplexIndex) Lookup(name string) (*edmx.ComplexType, bool) {
	ct, ok := ix.types[name]
	return ct, ok
}

// IsReal reports whether the named complex type gets its own declaration.
func (ix *ComplexIndex) IsReal(name string) bool {
	return ix.real[name]
}

// Real returns the real complex types ordered by Go type name.
func (ix *ComplexIndex) Real() []*edmx.ComplexType {
	return ix.collect(true)
}

// GoName returns the struct name of a real complex type, or "" when name is
// not one.
func (ix *ComplexIndex) GoName(name string) string {
	return ix.goNames[name]
}

// EntityTypes returns the entity types ordered by Go type name.
func (ix *ComplexIndex) EntityTypes() []*edmx.EntityType {
	return slices.Clone(ix.entities)
}

// EntityGoName returns the struct name of the named entity type.
func (ix *ComplexIndex) EntityGoName(name string) (string, bool) {
	goName, ok := ix.entityNames[name]
	return goName, ok
}

// Aliases returns the collapsed complex types ordered by Go type name.
func (ix *ComplexIndex) Aliases() []*edmx.ComplexType {
	return ix.collect(false)
}

// Names lists every complex type in declaration order.
func (ix *ComplexIndex) Names() []string {
	return slices.Clone(ix.order)
}

// Target returns the property an alias collapses to. ok is false for real
// types and for aliases without properties.
func (ix *ComplexIndex) Target(name string) (*edmx.Property, bool) {
	ct, found := ix.types[name]
	if !found || ix.real[name] || len(ct.Properties) == 0 {
		return nil, false
	}
	return &ct.Properties[0], true
}

func (ix *ComplexIndex) collect(real bool) []*edmx.ComplexType {
	var out []*edmx.ComplexType
	for _, name := range ix.order {
		if ix.real[name] == real {
			out = append(out, ix.types[name])
		}
	}
	slices.SortStableFunc(out, func(a, b *edmx.ComplexType) int {
		return byTypeName(a.Name, b.Name)
	})
	return out
}
