package naming

import "strings"

const (
	assocPrefix = "Assoc_"
	assocSuffix = "_AssocSet"
)

// NormalizeAssociation strips the decorations SAP puts on association and
// association set names so both map to one key. The prefix Assoc_ is
// optional. The suffix _AssocSet may be cut short by exporters, down to a
// bare trailing underscore; the longest variant present is removed.
//
//	Assoc_VH_UnitQuantity_SalesOrderLineItem_AssocSet -> VH_UnitQuantity_SalesOrderLineItem
//	Assoc_VH_UnitQuantity_SalesOrderLineItem_Ass      -> VH_UnitQuantity_SalesOrderLineItem
func NormalizeAssociation(name string) string {
	name = strings.TrimPrefix(name, assocPrefix)
	for n := len(assocSuffix); n > 0; n-- {
		if trimmed, ok := strings.CutSuffix(name, assocSuffix[:n]); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}
