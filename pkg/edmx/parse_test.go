package edmx

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Edmx {
	t.Helper()
	raw, err := os.ReadFile("../../testdata/gwsample_basic.xml")
	require.NoError(t, err)
	doc, err := Parse(raw)
	require.NoError(t, err)
	return doc
}

func sampleSchema(t *testing.T) *Schema {
	t.Helper()
	doc := loadSample(t)
	schema, ok := doc.DataServices.Schema("GWSAMPLE_BASIC")
	require.True(t, ok)
	return schema
}

func TestParse_DocumentStructure(t *testing.T) {
	doc := loadSample(t)

	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, "2.0", doc.DataServices.DataServiceVersion)
	assert.Equal(t, []string{"GWSAMPLE_BASIC"}, doc.DataServices.Namespaces())

	require.Len(t, doc.References, 1)
	require.Len(t, doc.References[0].Includes, 1)
	assert.Equal(t, "Org.OData.Core.V1", doc.References[0].Includes[0].Namespace)
	assert.Equal(t, "Core", doc.References[0].Includes[0].Alias)

	schema, ok := doc.DataServices.Schema("GWSAMPLE_BASIC")
	require.True(t, ok)
	assert.Equal(t, "en", schema.Language)
	assert.Equal(t, "1", schema.SchemaVersion)
	assert.Len(t, schema.EntityTypes, 7)
	assert.Len(t, schema.ComplexTypes, 2)
	assert.Len(t, schema.Associations, 5)
	assert.Len(t, schema.AtomLinks, 2)
	assert.Equal(t, "self", schema.AtomLinks[0].Rel)

	require.Len(t, schema.Annotations, 1)
	assert.Equal(t, "GWSAMPLE_BASIC.GWSAMPLE_BASIC_Entities", schema.Annotations[0].Target)
	assert.Equal(t, "Aggregation.ApplySupported", schema.Annotations[0].Annotations[0].Term)

	_, ok = doc.DataServices.Schema("NOPE")
	assert.False(t, ok)
}

func TestParse_PropertyDefaults(t *testing.T) {
	schema := sampleSchema(t)
	bp, ok := schema.EntityType("BusinessPartner")
	require.True(t, ok)

	tests := []struct {
		name       string
		nullable   bool
		sortable   Flag
		filterable Flag
		creatable  Flag
		unicode    Flag
		maxLength  string
	}{
		{"BusinessPartnerID", false, true, true, false, false, "10"},
		{"CompanyName", false, true, true, true, false, "80"},
		{"WebAddress", true, false, false, true, false, "255"},
		{"Address", false, true, true, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := bp.Property(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.nullable, p.Nullable)
			assert.Equal(t, tt.sortable, p.Sortable)
			assert.Equal(t, tt.filterable, p.Filterable)
			assert.Equal(t, tt.creatable, p.Creatable)
			assert.Equal(t, tt.unicode, p.Unicode)
			assert.Equal(t, tt.maxLength, p.MaxLength)
			assert.True(t, bool(p.Visible))
		})
	}
}

func TestParse_PropertyFacets(t *testing.T) {
	schema := sampleSchema(t)

	product, ok := schema.EntityType("Product")
	require.True(t, ok)
	price, ok := product.Property("Price")
	require.True(t, ok)
	require.NotNil(t, price.Precision)
	require.NotNil(t, price.Scale)
	assert.Equal(t, 16, *price.Precision)
	assert.Equal(t, 3, *price.Scale)
	assert.Equal(t, "CurrencyCode", price.Unit)

	changed, ok := product.Property("ChangedAt")
	require.True(t, ok)
	assert.Equal(t, "Fixed", changed.ConcurrencyMode)
	assert.Nil(t, changed.Scale)

	contact, ok := schema.EntityType("Contact")
	require.True(t, ok)
	sex, ok := contact.Property("Sex")
	require.True(t, ok)
	assert.Equal(t, FieldControlMandatory, sex.FieldControl)
	birth, ok := contact.Property("DateOfBirth")
	require.True(t, ok)
	assert.Equal(t, DisplayFormatDate, birth.DisplayFormat)
	first, ok := contact.Property("FirstName")
	require.True(t, ok)
	assert.Equal(t, SemanticsGivenName, first.Semantics)

	order, ok := schema.EntityType("SalesOrder")
	require.True(t, ok)
	lifecycle, ok := order.Property("LifecycleStatus")
	require.True(t, ok)
	assert.Equal(t, FilterSingleValue, lifecycle.FilterRestriction)
	delivery, ok := order.Property("DeliveryStatus")
	require.True(t, ok)
	assert.Equal(t, AggregationDimension, delivery.AggregationRole)
}

func TestParse_EntityTypes(t *testing.T) {
	schema := sampleSchema(t)

	item, ok := schema.EntityType("SalesOrderLineItem")
	require.True(t, ok)
	assert.Equal(t, []string{"SalesOrderID", "ItemPosition"}, item.Key.Names())
	assert.True(t, item.IsKey("ItemPosition"))
	assert.False(t, item.IsKey("ProductID"))
	assert.Equal(t, "1", item.ContentVersion)

	bp, ok := schema.EntityType("BusinessPartner")
	require.True(t, ok)
	require.Len(t, bp.NavigationProperties, 3)
	nav := bp.NavigationProperties[0]
	assert.Equal(t, "ToSalesOrders", nav.Name)
	assert.Equal(t, "GWSAMPLE_BASIC.Assoc_BusinessPartner_SalesOrders", nav.Relationship)
	assert.True(t, bool(nav.Creatable))

	_, ok = schema.EntityType("Missing")
	assert.False(t, ok)

	ct, ok := schema.ComplexType("CT_Address")
	require.True(t, ok)
	assert.Len(t, ct.Properties, 6)
	city, ok := ct.Property("City")
	require.True(t, ok)
	assert.Equal(t, SemanticsCity, city.Semantics)
}

func TestParse_Associations(t *testing.T) {
	schema := sampleSchema(t)

	assoc, ok := schema.Association("Assoc_BusinessPartner_Products")
	require.True(t, ok)
	require.Len(t, assoc.Ends, 2)
	assert.Equal(t, "1", assoc.Ends[0].Multiplicity)
	assert.Equal(t, "*", assoc.Ends[1].Multiplicity)

	end, ok := assoc.End("ToRole_Assoc_BusinessPartner_Products")
	require.True(t, ok)
	assert.Equal(t, "GWSAMPLE_BASIC.Product", end.Type)

	require.NotNil(t, assoc.ReferentialConstraint)
	assert.Equal(t, "SupplierID", assoc.ReferentialConstraint.Dependent.PropertyRefs[0].Name)

	noConstraint, ok := schema.Association("Assoc_VH_UnitQuantity_SalesOrderLineItem")
	require.True(t, ok)
	assert.Nil(t, noConstraint.ReferentialConstraint)
}

func TestParse_Container(t *testing.T) {
	schema := sampleSchema(t)

	c, ok := schema.DefaultContainer()
	require.True(t, ok)
	assert.Equal(t, "GWSAMPLE_BASIC_Entities", c.Name)
	assert.True(t, c.IsDefault)
	assert.True(t, bool(c.MessageScopeSupported))
	assert.False(t, bool(c.UseBatch))
	assert.True(t, c.SupportedFormats.Has("xlsx"))
	assert.False(t, c.SupportedFormats.Has("csv"))

	assert.Len(t, c.EntitySets, 7)
	assert.Len(t, c.AssociationSets, 5)

	bps, ok := c.EntitySet("BusinessPartnerSet")
	require.True(t, ok)
	assert.True(t, bool(bps.Creatable))
	assert.True(t, bool(bps.Pageable))
	assert.False(t, bool(bps.Searchable))

	vh, ok := c.EntitySet("VH_UnitQuantitySet")
	require.True(t, ok)
	assert.False(t, bool(vh.Creatable))
	assert.False(t, bool(vh.Pageable), "False should read as false")
	assert.False(t, bool(vh.Searchable), "yes is not a SAP boolean")

	so, ok := c.EntitySet("SalesOrderSet")
	require.True(t, ok)
	assert.True(t, bool(so.Searchable))

	set := c.AssociationSets[0]
	assert.Equal(t, "Assoc_BusinessPartner_Products_AssocSet", set.Name)
	assert.False(t, bool(set.Deletable))
	assert.Equal(t, "BusinessPartnerSet", set.Ends[0].EntitySet)
}

func TestParse_FunctionImports(t *testing.T) {
	schema := sampleSchema(t)
	c, ok := schema.DefaultContainer()
	require.True(t, ok)
	require.Len(t, c.FunctionImports, 2)

	regen := c.FunctionImports[0]
	assert.Equal(t, "RegenerateAllData", regen.Name)
	assert.Equal(t, "POST", regen.HTTPMethod)
	assert.Equal(t, "GWSAMPLE_BASIC.CT_String", regen.ReturnType)
	require.Len(t, regen.Parameters, 1)
	assert.Equal(t, "In", regen.Parameters[0].Mode)
	assert.True(t, regen.Parameters[0].Nullable)

	confirm := c.FunctionImports[1]
	assert.Equal(t, "SalesOrderSet", confirm.EntitySet)
	assert.Equal(t, "GWSAMPLE_BASIC.SalesOrder", confirm.ActionFor)
}

func TestParse_FunctionImportDefaults(t *testing.T) {
	doc := `<edmx:Edmx Version="1.0" xmlns:edmx="http://schemas.microsoft.com/ado/2007/06/edmx">
  <edmx:DataServices>
    <Schema Namespace="NS" xmlns="http://schemas.microsoft.com/ado/2008/09/edm">
      <EntityContainer Name="C">
        <FunctionImport Name="Ping" ReturnType="Edm.String">
          <Parameter Name="Token" Type="Edm.String" Nullable="false"/>
        </FunctionImport>
      </EntityContainer>
    </Schema>
  </edmx:DataServices>
</edmx:Edmx>`

	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	schema := &parsed.DataServices.Schemas[0]
	c, ok := schema.DefaultContainer()
	require.True(t, ok, "a lone container is the default")
	fi := c.FunctionImports[0]
	assert.Equal(t, "GET", fi.HTTPMethod)
	assert.Equal(t, "In", fi.Parameters[0].Mode)
	assert.False(t, fi.Parameters[0].Nullable)
	assert.Equal(t, Formats{"atom", "json"}, c.SupportedFormats)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind ErrorKind
	}{
		{
			name: "empty document",
			doc:  "",
			kind: KindMalformedXML,
		},
		{
			name: "truncated element",
			doc:  `<edmx:Edmx Version="1.0"`,
			kind: KindMalformedXML,
		},
		{
			name: "mismatched tags",
			doc:  `<Edmx><DataServices></Edmx>`,
			kind: KindMalformedXML,
		},
		{
			name: "invalid utf-8",
			doc:  "<Edmx Version=\"\xff\"></Edmx>",
			kind: KindEncoding,
		},
		{
			name: "unknown charset",
			doc:  `<?xml version="1.0" encoding="x-no-such-charset"?><Edmx/>`,
			kind: KindEncoding,
		},
		{
			name: "wrong root element",
			doc:  `<Metadata/>`,
			kind: KindSchemaShape,
		},
		{
			name: "no schema",
			doc:  `<Edmx><DataServices/></Edmx>`,
			kind: KindSchemaShape,
		},
		{
			name: "schema without namespace",
			doc:  `<Edmx><DataServices><Schema/></DataServices></Edmx>`,
			kind: KindSchemaShape,
		},
		{
			name: "property without type",
			doc:  `<Edmx><DataServices><Schema Namespace="NS"><EntityType Name="E"><Property Name="P"/></EntityType></Schema></DataServices></Edmx>`,
			kind: KindSchemaShape,
		},
		{
			name: "association with one end",
			doc:  `<Edmx><DataServices><Schema Namespace="NS"><Association Name="A"><End Role="R" Type="NS.E" Multiplicity="1"/></Association></Schema></DataServices></Edmx>`,
			kind: KindSchemaShape,
		},
		{
			name: "entity set without name",
			doc:  `<Edmx><DataServices><Schema Namespace="NS"><EntityContainer Name="C"><EntitySet EntityType="NS.E"/></EntityContainer></Schema></DataServices></Edmx>`,
			kind: KindSchemaShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
			assert.Equal(t, tt.kind, perr.Kind, perr.Error())
		})
	}
}

func TestParse_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<Edmx><DataServices><Schema Namespace=\"NS\">" +
		"<EntityType Name=\"E\" sap:label=\"Caf\xe9\" xmlns:sap=\"http://www.sap.com/Protocols/SAPData\"/>" +
		"</Schema></DataServices></Edmx>"

	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	et, ok := parsed.DataServices.Schemas[0].EntityType("E")
	require.True(t, ok)
	assert.Equal(t, "Café", et.Label)
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"false", false},
		{"1", false},
		{"yes", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlag(tt.in))
		})
	}
}

func TestFieldControl_IsPath(t *testing.T) {
	assert.False(t, FieldControlHidden.IsPath())
	assert.False(t, FieldControlMandatory.IsPath())
	assert.False(t, FieldControl("").IsPath())
	assert.True(t, FieldControl("UxFcSex").IsPath())
}

func TestProperty_QualifiedType(t *testing.T) {
	tests := []struct {
		typ    string
		ns     string
		name   string
		wantOK bool
	}{
		{"Edm.String", "Edm", "String", true},
		{"GWSAMPLE_BASIC.CT_Address", "GWSAMPLE_BASIC", "CT_Address", true},
		{"String", "", "", false},
		{"A.B.C", "", "", false},
		{".String", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			p := Property{Type: tt.typ}
			ns, name, ok := p.QualifiedType()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.ns, ns)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSchema_Unqualify(t *testing.T) {
	s := &Schema{Namespace: "GWSAMPLE_BASIC"}
	assert.Equal(t, "CT_Address", s.Unqualify("GWSAMPLE_BASIC.CT_Address"))
	assert.Equal(t, "Edm.String", s.Unqualify("Edm.String"))
}
