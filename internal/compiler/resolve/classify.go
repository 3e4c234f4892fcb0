package resolve

import (
	"fmt"

	"github.com/sapodata/odatagen/pkg/edmx"
)

// Kind classifies a declared property type.
type Kind int

const (
	// KindEdm is a primitive such as Edm.String.
	KindEdm Kind = iota
	// KindComplex is Namespace.Name outside the Edm namespace.
	KindComplex
	// KindUnqualified is anything without exactly two segments.
	KindUnqualified
)

func (k Kind) String() string {
	switch k {
	case KindEdm:
		return "edm"
	case KindComplex:
		return "complex"
	case KindUnqualified:
		return "unqualified"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ref is a classified type reference.
type Ref struct {
	Kind      Kind
	Namespace string
	Name      string
}

// Classify splits the declared type of p. An unqualified type keeps the
// declared string in Name.
func Classify(p *edmx.Property) Ref {
	ns, name, ok := p.QualifiedType()
	switch {
	case !ok:
		return Ref{Kind: KindUnqualified, Name: p.Type}
	case ns == edmx.EdmNamespace:
		return Ref{Kind: KindEdm, Namespace: ns, Name: name}
	default:
		return Ref{Kind: KindComplex, Namespace: ns, Name: name}
	}
}
