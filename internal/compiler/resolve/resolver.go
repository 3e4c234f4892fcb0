package resolve

import (
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/compiler/errors"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// maxAliasDepth bounds alias chains such as CT_A -> CT_B -> Edm.String.
const maxAliasDepth = 8

// Resolver turns properties into Go types. Problems are logged and kept as
// diagnostics; resolution itself never fails.
type Resolver struct {
	index    *ComplexIndex
	logger   *zap.Logger
	diags    errors.ErrorList
	reported map[string]bool
}

// NewResolver creates a resolver over ix. A nil logger discards output.
func NewResolver(ix *ComplexIndex, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		index:    ix,
		logger:   logger,
		reported: make(map[string]bool),
	}
}

// Index returns the complex type index shared by every consumer.
func (r *Resolver) Index() *ComplexIndex {
	return r.index
}

// Diagnostics returns the warnings collected so far. Each problem is
// reported once however often the property is resolved.
func (r *Resolver) Diagnostics() errors.ErrorList {
	return r.diags
}

// Resolve returns the Go type for property p of the type named owner.
func (r *Resolver) Resolve(owner string, p *edmx.Property) Type {
	ref := Classify(p)
	switch ref.Kind {
	case KindEdm:
		return Primitive(ref.Name, p.Nullable)
	case KindUnqualified:
		r.report(owner, p, errors.NewUnqualifiedType(errors.At(owner, p.Name), p.Type),
			"unqualified property type")
		return Type{Expr: p.Type}
	}

	if ref.Namespace == r.index.Namespace() {
		if _, ok := r.index.Lookup(ref.Name); ok {
			if r.index.IsReal(ref.Name) {
				return named(r.index.GoName(ref.Name), p.Nullable, ref.Name)
			}
			return r.collapse(ref.Name, p.Nullable, 0)
		}
		// Entity references are always pointers; an entity may refer to itself.
		if name, ok := r.index.EntityGoName(ref.Name); ok {
			return named(name, true, "")
		}
	}
	r.ReportMissingComplex(owner, p)
	return Type{Expr: ref.Name}
}

// named refers to a generated struct.
func named(goName string, nullable bool, complexName string) Type {
	if nullable {
		goName = "*" + goName
	}
	return Type{Expr: goName, Complex: complexName}
}

// ReportMissingComplex records a REF302 warning for p.
func (r *Resolver) ReportMissingComplex(owner string, p *edmx.Property) {
	r.report(owner, p,
		errors.NewMissingComplexType(errors.At(owner, p.Name), p.Type, r.index.Names()),
		"missing complex type")
}

// collapse resolves an alias to its member using the nullability of the
// referencing property.
func (r *Resolver) collapse(name string, nullable bool, depth int) Type {
	member, ok := r.index.Target(name)
	if !ok || depth >= maxAliasDepth {
		return Type{Expr: "string"}
	}
	ref := Classify(member)
	switch ref.Kind {
	case KindEdm:
		return Primitive(ref.Name, nullable)
	case KindComplex:
		if ref.Namespace == r.index.Namespace() {
			if _, found := r.index.Lookup(ref.Name); found && !r.index.IsReal(ref.Name) {
				return r.collapse(ref.Name, nullable, depth+1)
			}
			if r.index.IsReal(ref.Name) {
				return named(r.index.GoName(ref.Name), nullable, ref.Name)
			}
			if name, found := r.index.EntityGoName(ref.Name); found {
				return named(name, true, "")
			}
		}
	}
	return Primitive("String", nullable)
}

func (r *Resolver) report(owner string, p *edmx.Property, diag *errors.CompilerError, msg string) {
	key := string(diag.Code) + " " + owner + "/" + p.Name
	if r.reported[key] {
		return
	}
	r.reported[key] = true
	r.diags = append(r.diags, diag)
	r.logger.Warn(msg,
		zap.String("code", string(diag.Code)),
		zap.String("owner", owner),
		zap.String("property", p.Name),
		zap.String("type", p.Type),
	)
}
