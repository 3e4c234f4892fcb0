package naming

import (
	"cmp"
	"slices"

	"github.com/sapodata/odatagen/pkg/edmx"
)

// SortByName returns a copy of items ordered by the canonical field name of
// each item's schema name. Equal canonical names fall back to the raw name so
// the order never depends on input order.
func SortByName[T any](items []T, name func(T) string) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		ra, rb := name(a), name(b)
		if c := cmp.Compare(FieldName(ra), FieldName(rb)); c != 0 {
			return c
		}
		return cmp.Compare(ra, rb)
	})
	return out
}

// SortProperties orders properties by canonical field name.
func SortProperties(props []edmx.Property) []edmx.Property {
	return SortByName(props, func(p edmx.Property) string { return p.Name })
}
