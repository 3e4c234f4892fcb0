package codegen

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapodata/odatagen/internal/compiler/errors"
	"github.com/sapodata/odatagen/internal/compiler/resolve"
	"github.com/sapodata/odatagen/pkg/edmx"
)

const fixture = "../../../testdata/gwsample_basic.xml"

func sampleGenerator(t *testing.T) (*Generator, *resolve.Resolver) {
	t.Helper()
	raw, err := os.ReadFile(fixture)
	require.NoError(t, err)
	doc, err := edmx.Parse(raw)
	require.NoError(t, err)
	schema, ok := doc.DataServices.Schema("GWSAMPLE_BASIC")
	require.True(t, ok)
	return generatorFor(schema, "testdata/gwsample_basic.xml")
}

func generatorFor(schema *edmx.Schema, src string) (*Generator, *resolve.Resolver) {
	r := resolve.NewResolver(resolve.NewComplexIndex(schema), nil)
	return NewGenerator(schema, r, Options{Package: "gwsample", SourcePath: src}), r
}

func formatted(t *testing.T, src []byte) string {
	t.Helper()
	out, diag := Format("gwsample_basic.go", src)
	require.Nil(t, diag, "generated source must parse:\n%s", src)
	return string(out)
}

func TestGenerateModule_Deterministic(t *testing.T) {
	first, _ := sampleGenerator(t)
	second, _ := sampleGenerator(t)

	a := first.GenerateModule()
	b := second.GenerateModule()
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, string(a), string(first.GenerateModule()), "regenerating with the same generator")

	assert.Equal(t, string(first.GenerateMetadataModule()), string(second.GenerateMetadataModule()))
}

func TestGenerateModule_Header(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	lines := strings.Split(src, "\n")
	assert.Equal(t, "// Code generated by odatagen from testdata/gwsample_basic.xml; DO NOT EDIT.", lines[0])
	assert.Contains(t, src, "//go:generate odatagen generate -i testdata/gwsample_basic.xml -n GWSAMPLE_BASIC -p gwsample -o .\n")
	assert.Contains(t, src, "\npackage gwsample\n")
	assert.Contains(t, src, `"github.com/sapodata/odatagen/pkg/odata"`)
	assert.Contains(t, src, `"github.com/google/uuid"`)
}

func TestGenerateModule_AliasBlock(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, `type (
	AggregationRole   = edmx.AggregationRole
	DisplayFormat     = edmx.DisplayFormat
	FieldControl      = edmx.FieldControl
	FilterRestriction = edmx.FilterRestriction
	PropertySemantics = edmx.PropertySemantics
)`)
	assert.NotContains(t, src, "EntitySetSemantics")
	assert.NotContains(t, src, "ValueList")
}

func TestGenerateModule_ComplexCollapse(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "type CTAddress struct {")
	assert.Contains(t, src, "func NewCTAddress() CTAddress {")
	assert.Contains(t, src, "func ParseCTAddress(text string) (CTAddress, error) {")
	assert.NotContains(t, src, "type CTString")
	assert.Regexp(t, `\n\tAddress\s+CTAddress\s+// GWSAMPLE_BASIC\.CT_Address\n`, src)
}

func TestGenerateModule_EntityTypes(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "// BusinessPartner is the entity type GWSAMPLE_BASIC.BusinessPartner.\ntype BusinessPartner struct {")
	assert.Contains(t, src, "func NewBusinessPartner(businessPartnerID string) BusinessPartner {\n\treturn BusinessPartner{BusinessPartnerID: businessPartnerID}\n}")
	assert.Contains(t, src, "func NewContact(contactGuid uuid.UUID) Contact {")
	assert.Contains(t, src, "func NewSalesOrderLineItem(salesOrderID string, itemPosition string) SalesOrderLineItem {")
	assert.Contains(t, src, "type VHUnitQuantity struct {")

	assert.Regexp(t, `\n\tPrice\s+odata\.NullDecimal\s+// Edm\.Decimal\n`, src)
	assert.Regexp(t, `\n\tQuantity\s+odata\.Decimal\s+// Edm\.Decimal\n`, src)
	assert.Regexp(t, `\n\tDateOfBirth\s+odata\.NullDateTime\s+// Edm\.DateTime\n`, src)
	assert.Regexp(t, `\n\tDeliveryDate\s+odata\.DateTime\s+// Edm\.DateTime\n`, src)
	assert.Regexp(t, `\n\tTaxTarifCode\s+uint8\s+// Edm\.Byte\n`, src)
	assert.Regexp(t, `\n\tContactGuid\s+uuid\.UUID\s+// Edm\.Guid\n`, src)
	assert.Regexp(t, `\n\tWebAddress\s+\*string\s+// Edm\.String\n`, src)

	assert.Contains(t, src, `odata.KeyValue{Name: "SalesOrderID", Value: s.SalesOrderID},
		odata.KeyValue{Name: "ItemPosition", Value: s.ItemPosition},`)

	// struct order follows canonical names
	assert.Less(t, strings.Index(src, "type BusinessPartner struct"), strings.Index(src, "type Contact struct"))
	assert.Less(t, strings.Index(src, "type SalesOrder struct"), strings.Index(src, "type SalesOrderLineItem struct"))
}

func TestGenerateModule_EntitySets(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "type EntitySet int")
	assert.Contains(t, src, "EntitySetBusinessPartnerSet EntitySet = iota")
	assert.Regexp(t, `EntitySetVHUnitQuantitySet:\s+"VH_UnitQuantitySet",`, src)
	assert.Contains(t, src, "func EntitySets() []EntitySet {")
	assert.Contains(t, src, "func EntitySetNames() []string {")
	assert.Contains(t, src, "func ParseEntitySet(name string) (EntitySet, bool) {")
	assert.Contains(t, src, "func (e EntitySet) Name() string {")
}

func TestGenerateModule_Associations(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	for _, want := range []string{
		"AssociationVHUnitQuantitySalesOrderLineItem Association = iota",
		"AssociationSetBusinessPartnerProducts AssociationSet = iota",
		"AssociationSetVHUnitQuantitySalesOrderLineItem",
		"AssociationSetBusinessPartnerContacts",
		"AssociationSetBusinessPartnerSalesOrders",
		"func VHUnitQuantitySalesOrderLineItemAssociation() edmx.Association {",
		"func BusinessPartnerProductsAssociationSet() edmx.AssociationSet {",
		"func (a Association) Value() edmx.Association {",
		"func (a AssociationSet) Value() edmx.AssociationSet {",
		`"Assoc_BusinessPartner_Contacts_AssocS",`,
	} {
		assert.Contains(t, src, want)
	}

	assert.Regexp(t, `ReferentialConstraint:\s+&edmx\.ReferentialConstraint\{
\t+Principal: edmx\.RoleRef\{
\t+Role:\s+"FromRole_Assoc_BusinessPartner_Products",
\t+PropertyRefs: \[\]edmx\.PropertyRef\{
\t+\{Name: "BusinessPartnerID"\},
\t+\},
\t+\},`, src)
	assert.Regexp(t, `AssociationAnnotations:\s+edmx\.AssociationAnnotations\{ContentVersion: "1"\},`, src)
}

func TestGenerateModule_FunctionImports(t *testing.T) {
	g, _ := sampleGenerator(t)
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "FunctionImportRegenerateAllData FunctionImport = iota")
	assert.Contains(t, src, "func RegenerateAllDataFunctionImport() edmx.FunctionImport {")
	assert.Regexp(t, `HTTPMethod:\s+"POST",`, src)
	assert.Regexp(t, `\{
\t+Name:\s+"NoOfSalesOrders",
\t+Type:\s+"Edm\.Int32",
\t+Mode:\s+"In",
\t+Nullable:\s+true,
\t+\},`, src)
}

func TestGenerateModule_KeywordEscaping(t *testing.T) {
	schema := &edmx.Schema{
		Namespace: "NS",
		EntityTypes: []edmx.EntityType{{
			Name: "Thing",
			Key:  edmx.Key{PropertyRefs: []edmx.PropertyRef{{Name: "type"}}},
			Properties: []edmx.Property{
				{Name: "type", Type: "Edm.String"},
				{Name: "range", Type: "Edm.Int32", Nullable: true},
				{Name: "XMLName", Type: "Edm.String"},
			},
		}},
	}
	g, _ := generatorFor(schema, "")
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "// Code generated by odatagen; DO NOT EDIT.")
	assert.NotContains(t, src, "go:generate")
	assert.Regexp(t, "\\n\\tType\\s+string\\s+`xml:\"type\"`\\s+// Edm\\.String\\n", src)
	assert.Regexp(t, "\\n\\tRange\\s+\\*int32\\s+`xml:\"range\"`\\s+// Edm\\.Int32\\n", src)
	assert.Regexp(t, "\\n\\tXMLName_\\s+string\\s+`xml:\"XMLName\"`\\s+// Edm\\.String\\n", src)
	assert.Contains(t, src, "func NewThing(type_ string) Thing {\n\treturn Thing{Type: type_}\n}")
	assert.NotContains(t, src, "type EntitySet")
	assert.NotContains(t, src, `"fmt"`)
}

func TestGenerateModule_NameCollisions(t *testing.T) {
	schema := &edmx.Schema{
		Namespace: "NS",
		EntityTypes: []edmx.EntityType{
			{Name: "Order", Properties: []edmx.Property{{Name: "ID", Type: "Edm.String"}}},
			{Name: "NewOrder", Properties: []edmx.Property{{Name: "ID", Type: "Edm.String"}}},
			{Name: "EntitySet", Properties: []edmx.Property{
				{Name: "city", Type: "Edm.String", Nullable: true},
				{Name: "City", Type: "Edm.String", Nullable: true},
			}},
		},
		EntityContainers: []edmx.EntityContainer{{
			Name:       "C",
			EntitySets: []edmx.EntitySet{{Name: "Orders", EntityType: "NS.Order"}},
		}},
	}
	g, _ := generatorFor(schema, "")
	src := formatted(t, g.GenerateModule())

	assert.Contains(t, src, "type NewOrder struct {")
	assert.Contains(t, src, "func NewOrder_() Order {")
	assert.Contains(t, src, "type EntitySet struct {")
	assert.Contains(t, src, "type EntitySet_ int")
	assert.Regexp(t, `\n\tCity\s+\*string\s+// Edm\.String\n`, src)
	assert.Regexp(t, "\\n\\tCity_\\s+\\*string\\s+`xml:\"city\"`\\s+// Edm\\.String\\n", src)
}

func TestGenerateModule_ComplexTypeNameCollision(t *testing.T) {
	schema := &edmx.Schema{
		Namespace: "NS",
		ComplexTypes: []edmx.ComplexType{
			{Name: "A_B", Properties: []edmx.Property{{Name: "P", Type: "Edm.Int32"}, {Name: "Q", Type: "Edm.Int32"}}},
			{Name: "AB", Properties: []edmx.Property{{Name: "X", Type: "Edm.String"}, {Name: "Y", Type: "Edm.String"}}},
		},
		EntityTypes: []edmx.EntityType{{
			Name: "E",
			Properties: []edmx.Property{
				{Name: "Ref", Type: "NS.A_B"},
				{Name: "Other", Type: "NS.AB", Nullable: true},
			},
		}},
	}
	g, r := generatorFor(schema, "")
	src := formatted(t, g.GenerateModule())

	assert.Regexp(t, `type AB struct \{\n\tX\s+string`, src)
	assert.Regexp(t, `type AB_ struct \{\n\tP\s+int32`, src)
	assert.Regexp(t, `\n\tRef\s+AB_\s+// NS\.A_B\n`, src)
	assert.Regexp(t, `\n\tOther\s+\*AB\s+// NS\.AB\n`, src)
	assert.Empty(t, r.Diagnostics())
}

func TestGenerateModule_EntityTypeReference(t *testing.T) {
	schema := &edmx.Schema{
		Namespace: "NS",
		EntityTypes: []edmx.EntityType{
			{Name: "Customer", Properties: []edmx.Property{{Name: "ID", Type: "Edm.String"}}},
			{Name: "Order", Properties: []edmx.Property{
				{Name: "ID", Type: "Edm.String"},
				{Name: "Buyer", Type: "NS.Customer"},
				{Name: "Parent", Type: "NS.Order"},
			}},
		},
	}
	g, r := generatorFor(schema, "")
	src := formatted(t, g.GenerateModule())

	assert.Regexp(t, `\n\tBuyer\s+\*Customer\s+// NS\.Customer\n`, src)
	assert.Regexp(t, `\n\tParent\s+\*Order\s+// NS\.Order\n`, src)

	meta := formatted(t, g.GenerateMetadataModule())
	assert.Regexp(t, `\n\tBuyer\s+edmx\.Property\n`, meta)
	assert.Empty(t, r.Diagnostics())
}

func TestGenerateMetadataModule(t *testing.T) {
	g, r := sampleGenerator(t)
	src := formatted(t, g.GenerateMetadataModule())

	assert.Contains(t, src, "// Code generated by odatagen from testdata/gwsample_basic.xml; DO NOT EDIT.")
	assert.NotContains(t, src, "go:generate")
	assert.Contains(t, src, "type BusinessPartnerMetadata struct {")
	assert.Regexp(t, `\n\tKey\s+\[\]edmx\.PropertyRef\n`, src)
	assert.Regexp(t, `\n\tAddress\s+edmx\.ComplexType\n`, src)
	assert.Contains(t, src, "func GetBusinessPartnerMetadata() BusinessPartnerMetadata {")
	assert.Contains(t, src, "type CTAddressMetadata struct {")
	assert.Regexp(t, `Precision:\s+edmx\.Int\(16\),`, src)
	assert.Regexp(t, `Label:\s+"Company Name",`, src)
	assert.Empty(t, r.Diagnostics())
}

func TestGenerateMetadataModule_MissingComplex(t *testing.T) {
	schema := &edmx.Schema{
		Namespace: "NS",
		ComplexTypes: []edmx.ComplexType{
			{Name: "CT_Known", Properties: []edmx.Property{{Name: "A", Type: "Edm.String"}, {Name: "B", Type: "Edm.String"}}},
		},
		EntityTypes: []edmx.EntityType{{
			Name: "Thing",
			Properties: []edmx.Property{
				{Name: "Name", Type: "Edm.String"},
				{Name: "Where", Type: "NS.CT_Missing"},
			},
		}},
	}
	g, r := generatorFor(schema, "")
	src := formatted(t, g.GenerateMetadataModule())

	assert.Regexp(t, `\n\tName\s+edmx\.Property\n`, src)
	assert.NotContains(t, src, "Where")

	diags := r.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrMissingComplexType, diags[0].Code)
	assert.Equal(t, []string{"CT_Known"}, diags[0].Examples)
}

func TestFormat_Failure(t *testing.T) {
	src := []byte("package x\n\nfunc {\n")
	out, diag := Format("gen/gwsample_basic.go", src)
	require.NotNil(t, diag)
	assert.Equal(t, errors.ErrFormatFailed, diag.Code)
	assert.Equal(t, "gen/gwsample_basic_failed.go", diag.File)
	assert.Equal(t, src, out)
}
