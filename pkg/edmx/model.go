// Package edmx models an OData v2 service metadata document (EDMX/CSDL)
// together with the SAP annotations layered onto it by SAP Gateway.
//
// The model is built once by Parse and is read-only afterwards. Generated
// code embeds values of these types (associations, function imports and
// property descriptors), so the package is public.
package edmx

import (
	"encoding/xml"
	"strings"
)

// XML namespaces used by SAP Gateway metadata documents.
const (
	EdmxNamespace     = "http://schemas.microsoft.com/ado/2007/06/edmx"
	MetadataNamespace = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
	SAPNamespace      = "http://www.sap.com/Protocols/SAPData"
	AtomNamespace     = "http://www.w3.org/2005/Atom"
)

// EdmNamespace is the namespace segment of primitive types such as Edm.String.
const EdmNamespace = "Edm"

// Edmx is the root element of a metadata document.
type Edmx struct {
	XMLName      xml.Name     `xml:"Edmx"`
	Version      string       `xml:"Version,attr"`
	References   []Reference  `xml:"Reference"`
	DataServices DataServices `xml:"DataServices"`
}

// Reference points at an external vocabulary document.
type Reference struct {
	URI      string    `xml:"Uri,attr"`
	Includes []Include `xml:"Include"`
}

// Include names a namespace imported from a Reference.
type Include struct {
	Namespace string `xml:"Namespace,attr"`
	Alias     string `xml:"Alias,attr"`
}

// DataServices holds one or more schemas.
type DataServices struct {
	DataServiceVersion string   `xml:"DataServiceVersion,attr"`
	Schemas            []Schema `xml:"Schema"`
}

// Schema returns the schema declared with the given namespace.
func (d *DataServices) Schema(namespace string) (*Schema, bool) {
	for i := range d.Schemas {
		if d.Schemas[i].Namespace == namespace {
			return &d.Schemas[i], true
		}
	}
	return nil, false
}

// Namespaces lists the namespaces of all schemas in document order.
func (d *DataServices) Namespaces() []string {
	out := make([]string, 0, len(d.Schemas))
	for _, s := range d.Schemas {
		out = append(out, s.Namespace)
	}
	return out
}

// Schema is a single CSDL schema.
type Schema struct {
	Namespace        string            `xml:"Namespace,attr"`
	Language         string            `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	SchemaVersion    string            `xml:"http://www.sap.com/Protocols/SAPData schema-version,attr"`
	EntityTypes      []EntityType      `xml:"EntityType"`
	ComplexTypes     []ComplexType     `xml:"ComplexType"`
	Associations     []Association     `xml:"Association"`
	EntityContainers []EntityContainer `xml:"EntityContainer"`
	Annotations      []Annotations     `xml:"Annotations"`
	AtomLinks        []AtomLink        `xml:"http://www.w3.org/2005/Atom link"`
}

// DefaultContainer returns the container flagged as default. A schema with a
// single container treats it as the default.
func (s *Schema) DefaultContainer() (*EntityContainer, bool) {
	for i := range s.EntityContainers {
		if s.EntityContainers[i].IsDefault {
			return &s.EntityContainers[i], true
		}
	}
	if len(s.EntityContainers) == 1 {
		return &s.EntityContainers[0], true
	}
	return nil, false
}

// EntityType looks up an entity type by its unqualified name.
func (s *Schema) EntityType(name string) (*EntityType, bool) {
	for i := range s.EntityTypes {
		if s.EntityTypes[i].Name == name {
			return &s.EntityTypes[i], true
		}
	}
	return nil, false
}

// ComplexType looks up a complex type by its unqualified name.
func (s *Schema) ComplexType(name string) (*ComplexType, bool) {
	for i := range s.ComplexTypes {
		if s.ComplexTypes[i].Name == name {
			return &s.ComplexTypes[i], true
		}
	}
	return nil, false
}

// Association looks up an association by its unqualified name.
func (s *Schema) Association(name string) (*Association, bool) {
	for i := range s.Associations {
		if s.Associations[i].Name == name {
			return &s.Associations[i], true
		}
	}
	return nil, false
}

// Unqualify strips this schema's namespace from a qualified name. Names from
// other namespaces are returned unchanged.
func (s *Schema) Unqualify(name string) string {
	return strings.TrimPrefix(name, s.Namespace+".")
}

// AtomLink is an atom:link element carried by SAP schemas.
type AtomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// Annotations is a block of vocabulary annotations applied to a target.
type Annotations struct {
	Target      string       `xml:"Target,attr"`
	Qualifier   string       `xml:"Qualifier,attr"`
	Annotations []Annotation `xml:"Annotation"`
}

// Annotation is a single vocabulary term application.
type Annotation struct {
	Term       string `xml:"Term,attr"`
	Qualifier  string `xml:"Qualifier,attr"`
	String     string `xml:"String,attr"`
	Bool       string `xml:"Bool,attr"`
	EnumMember string `xml:"EnumMember,attr"`
	Path       string `xml:"Path,attr"`
}

// Property is a structural property of an entity or complex type.
type Property struct {
	Name            string `xml:"Name,attr"`
	Type            string `xml:"Type,attr"`
	Nullable        bool   `xml:"Nullable,attr"`
	MaxLength       string `xml:"MaxLength,attr"`
	Precision       *int   `xml:"Precision,attr"`
	Scale           *int   `xml:"Scale,attr"`
	FixedLength     string `xml:"FixedLength,attr"`
	ConcurrencyMode string `xml:"ConcurrencyMode,attr"`
	PropertyAnnotations
}

// UnmarshalXML applies the CSDL and SAP defaults before decoding.
func (p *Property) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain Property
	v := plain{Nullable: true, PropertyAnnotations: DefaultPropertyAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*p = Property(v)
	return nil
}

// QualifiedType splits the declared type into namespace and name. ok is
// false unless the type has exactly two dot-separated segments.
func (p *Property) QualifiedType() (namespace, name string, ok bool) {
	parts := strings.Split(p.Type, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// PropertyRef names a property declared by the enclosing entity type.
type PropertyRef struct {
	Name string `xml:"Name,attr"`
}

// Key is the primary key of an entity type.
type Key struct {
	PropertyRefs []PropertyRef `xml:"PropertyRef"`
}

// Names returns the key property names in declaration order.
func (k Key) Names() []string {
	out := make([]string, 0, len(k.PropertyRefs))
	for _, ref := range k.PropertyRefs {
		out = append(out, ref.Name)
	}
	return out
}

// ComplexType is a keyless structured type.
type ComplexType struct {
	Name       string     `xml:"Name,attr"`
	Properties []Property `xml:"Property"`
}

// Property looks up a member property by name.
func (c *ComplexType) Property(name string) (*Property, bool) {
	return findProperty(c.Properties, name)
}

// NavigationProperty links an entity type to the other end of an association.
type NavigationProperty struct {
	Name         string `xml:"Name,attr"`
	Relationship string `xml:"Relationship,attr"`
	FromRole     string `xml:"FromRole,attr"`
	ToRole       string `xml:"ToRole,attr"`
	NavigationPropertyAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (n *NavigationProperty) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain NavigationProperty
	v := plain{NavigationPropertyAnnotations: DefaultNavigationPropertyAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*n = NavigationProperty(v)
	return nil
}

// EntityType is a keyed structured type.
type EntityType struct {
	Name                 string               `xml:"Name,attr"`
	HasStream            bool                 `xml:"HasStream,attr"`
	Key                  Key                  `xml:"Key"`
	Properties           []Property           `xml:"Property"`
	NavigationProperties []NavigationProperty `xml:"NavigationProperty"`
	EntityTypeAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (e *EntityType) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain EntityType
	v := plain{EntityTypeAnnotations: DefaultEntityTypeAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*e = EntityType(v)
	return nil
}

// Property looks up a property by name.
func (e *EntityType) Property(name string) (*Property, bool) {
	return findProperty(e.Properties, name)
}

// IsKey reports whether the named property is part of the key.
func (e *EntityType) IsKey(name string) bool {
	for _, ref := range e.Key.PropertyRefs {
		if ref.Name == name {
			return true
		}
	}
	return false
}

func findProperty(props []Property, name string) (*Property, bool) {
	for i := range props {
		if props[i].Name == name {
			return &props[i], true
		}
	}
	return nil, false
}

// End is one side of an association or association set.
type End struct {
	Role         string `xml:"Role,attr"`
	EntitySet    string `xml:"EntitySet,attr"`
	Type         string `xml:"Type,attr"`
	Multiplicity string `xml:"Multiplicity,attr"`
}

// RoleRef is the principal or dependent side of a referential constraint.
type RoleRef struct {
	Role         string        `xml:"Role,attr"`
	PropertyRefs []PropertyRef `xml:"PropertyRef"`
}

// ReferentialConstraint maps dependent properties onto principal properties.
type ReferentialConstraint struct {
	Principal RoleRef `xml:"Principal"`
	Dependent RoleRef `xml:"Dependent"`
}

// Association is a named relationship between two entity types.
type Association struct {
	Name                  string                 `xml:"Name,attr"`
	Ends                  []End                  `xml:"End"`
	ReferentialConstraint *ReferentialConstraint `xml:"ReferentialConstraint"`
	AssociationAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (a *Association) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain Association
	v := plain{AssociationAnnotations: DefaultAssociationAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*a = Association(v)
	return nil
}

// End returns the end playing the given role.
func (a *Association) End(role string) (*End, bool) {
	for i := range a.Ends {
		if a.Ends[i].Role == role {
			return &a.Ends[i], true
		}
	}
	return nil, false
}

// EntitySet exposes the instances of one entity type.
type EntitySet struct {
	Name       string `xml:"Name,attr"`
	EntityType string `xml:"EntityType,attr"`
	EntitySetAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (e *EntitySet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain EntitySet
	v := plain{EntitySetAnnotations: DefaultEntitySetAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*e = EntitySet(v)
	return nil
}

// AssociationSet exposes the links of one association.
type AssociationSet struct {
	Name        string `xml:"Name,attr"`
	Association string `xml:"Association,attr"`
	Ends        []End  `xml:"End"`
	AssociationSetAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (a *AssociationSet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain AssociationSet
	v := plain{AssociationSetAnnotations: DefaultAssociationSetAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*a = AssociationSet(v)
	return nil
}

// Parameter is an input of a function import.
type Parameter struct {
	Name      string `xml:"Name,attr"`
	Type      string `xml:"Type,attr"`
	Mode      string `xml:"Mode,attr"`
	Nullable  bool   `xml:"Nullable,attr"`
	MaxLength string `xml:"MaxLength,attr"`
	Precision *int   `xml:"Precision,attr"`
	Scale     *int   `xml:"Scale,attr"`
	ParameterAnnotations
}

// UnmarshalXML applies the CSDL defaults before decoding.
func (p *Parameter) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain Parameter
	v := plain{Mode: "In", Nullable: true}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*p = Parameter(v)
	return nil
}

// FunctionImport is a service operation exposed by the container.
type FunctionImport struct {
	Name       string      `xml:"Name,attr"`
	ReturnType string      `xml:"ReturnType,attr"`
	EntitySet  string      `xml:"EntitySet,attr"`
	HTTPMethod string      `xml:"HttpMethod,attr"`
	Parameters []Parameter `xml:"Parameter"`
	FunctionImportAnnotations
}

// UnmarshalXML applies the protocol defaults before decoding.
func (f *FunctionImport) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain FunctionImport
	v := plain{HTTPMethod: "GET"}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*f = FunctionImport(v)
	return nil
}

// EntityContainer groups the sets and operations a service exposes.
type EntityContainer struct {
	Name            string           `xml:"Name,attr"`
	IsDefault       bool             `xml:"IsDefaultEntityContainer,attr"`
	EntitySets      []EntitySet      `xml:"EntitySet"`
	AssociationSets []AssociationSet `xml:"AssociationSet"`
	FunctionImports []FunctionImport `xml:"FunctionImport"`
	EntityContainerAnnotations
}

// UnmarshalXML applies the SAP defaults before decoding.
func (c *EntityContainer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain EntityContainer
	v := plain{EntityContainerAnnotations: DefaultEntityContainerAnnotations()}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*c = EntityContainer(v)
	return nil
}

// EntitySet looks up an entity set by name.
func (c *EntityContainer) EntitySet(name string) (*EntitySet, bool) {
	for i := range c.EntitySets {
		if c.EntitySets[i].Name == name {
			return &c.EntitySets[i], true
		}
	}
	return nil, false
}

// Int returns a pointer to v. Generated descriptors use it for Precision and
// Scale.
func Int(v int) *int {
	return &v
}
