package edmx

import (
	"encoding/xml"
	"strings"
)

// Flag is a boolean SAP annotation. SAP serializes these as the strings
// "true" and "false"; any other value reads as false and is never an error.
type Flag bool

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (f *Flag) UnmarshalXMLAttr(attr xml.Attr) error {
	*f = ParseFlag(attr.Value)
	return nil
}

// ParseFlag converts a SAP boolean string. Malformed input is false.
func ParseFlag(s string) Flag {
	return Flag(strings.EqualFold(strings.TrimSpace(s), "true"))
}

// Formats is the space separated sap:supported-formats list.
type Formats []string

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (f *Formats) UnmarshalXMLAttr(attr xml.Attr) error {
	*f = strings.Fields(attr.Value)
	return nil
}

// Has reports whether the format is listed.
func (f Formats) Has(format string) bool {
	for _, v := range f {
		if v == format {
			return true
		}
	}
	return false
}

// PropertySemantics is the sap:semantics value of a property.
type PropertySemantics string

const (
	SemanticsTelephone        PropertySemantics = "tel"
	SemanticsEmail            PropertySemantics = "email"
	SemanticsURL              PropertySemantics = "url"
	SemanticsName             PropertySemantics = "name"
	SemanticsGivenName        PropertySemantics = "givenname"
	SemanticsMiddleName       PropertySemantics = "middlename"
	SemanticsFamilyName       PropertySemantics = "familyname"
	SemanticsNickname         PropertySemantics = "nickname"
	SemanticsHonorific        PropertySemantics = "honorific"
	SemanticsSuffix           PropertySemantics = "suffix"
	SemanticsNote             PropertySemantics = "note"
	SemanticsPhoto            PropertySemantics = "photo"
	SemanticsCity             PropertySemantics = "city"
	SemanticsStreet           PropertySemantics = "street"
	SemanticsCountry          PropertySemantics = "country"
	SemanticsRegion           PropertySemantics = "region"
	SemanticsZip              PropertySemantics = "zip"
	SemanticsPOBox            PropertySemantics = "pobox"
	SemanticsOrganization     PropertySemantics = "org"
	SemanticsOrganizationUnit PropertySemantics = "org-unit"
	SemanticsOrganizationRole PropertySemantics = "org-role"
	SemanticsJobTitle         PropertySemantics = "title"
	SemanticsBirthday         PropertySemantics = "bday"
	SemanticsCurrencyCode     PropertySemantics = "currency-code"
	SemanticsUnitOfMeasure    PropertySemantics = "unit-of-measure"
	SemanticsYearMonth        PropertySemantics = "yearmonth"
	SemanticsYearMonthDay     PropertySemantics = "yearmonthday"
	SemanticsFiscalYear       PropertySemantics = "fiscalyear"
	SemanticsFiscalPeriod     PropertySemantics = "fiscalperiod"
	SemanticsWholeDay         PropertySemantics = "wholeday"
)

// EntityTypeSemantics is the sap:semantics value of an entity type.
type EntityTypeSemantics string

const (
	EntityTypeSemanticsAggregate  EntityTypeSemantics = "aggregate"
	EntityTypeSemanticsParameters EntityTypeSemantics = "parameters"
	EntityTypeSemanticsVCard      EntityTypeSemantics = "vcard"
	EntityTypeSemanticsVEvent     EntityTypeSemantics = "vevent"
	EntityTypeSemanticsVToDo      EntityTypeSemantics = "vtodo"
)

// EntitySetSemantics is the sap:semantics value of an entity set.
type EntitySetSemantics string

const (
	EntitySetSemanticsAggregate      EntitySetSemantics = "aggregate"
	EntitySetSemanticsTimeSeries     EntitySetSemantics = "timeseries"
	EntitySetSemanticsFixedValueList EntitySetSemantics = "fixed-values"
)

// FilterRestriction limits how a property may appear in $filter.
type FilterRestriction string

const (
	FilterSingleValue FilterRestriction = "single-value"
	FilterMultiValue  FilterRestriction = "multi-value"
	FilterInterval    FilterRestriction = "interval"
)

// FieldControl is either a fixed UI state or the path of a property holding it.
type FieldControl string

const (
	FieldControlHidden    FieldControl = "0"
	FieldControlReadOnly  FieldControl = "1"
	FieldControlOptional  FieldControl = "3"
	FieldControlMandatory FieldControl = "7"
)

// IsPath reports whether the value names a property instead of a fixed state.
func (f FieldControl) IsPath() bool {
	switch f {
	case "", FieldControlHidden, FieldControlReadOnly, FieldControlOptional, FieldControlMandatory:
		return false
	}
	return true
}

// DisplayFormat is a rendering hint for a property value.
type DisplayFormat string

const (
	DisplayFormatDate        DisplayFormat = "Date"
	DisplayFormatNonNegative DisplayFormat = "NonNegative"
	DisplayFormatUpperCase   DisplayFormat = "UpperCase"
)

// AggregationRole marks a property of an aggregate entity type.
type AggregationRole string

const (
	AggregationDimension           AggregationRole = "dimension"
	AggregationMeasure             AggregationRole = "measure"
	AggregationTotalPropertiesList AggregationRole = "totaled-properties-list"
)

// ParameterKind marks a property of a parameters entity type.
type ParameterKind string

const (
	ParameterMandatory ParameterKind = "mandatory"
	ParameterOptional  ParameterKind = "optional"
)

// ValueList describes the kind of value help available for a property.
type ValueList string

const (
	ValueListStandard    ValueList = "standard"
	ValueListFixedValues ValueList = "fixed-values"
)

// PropertyAnnotations are the sap:* attributes of a Property.
type PropertyAnnotations struct {
	Label                       string            `xml:"http://www.sap.com/Protocols/SAPData label,attr"`
	Heading                     string            `xml:"http://www.sap.com/Protocols/SAPData heading,attr"`
	QuickInfo                   string            `xml:"http://www.sap.com/Protocols/SAPData quickinfo,attr"`
	Unicode                     Flag              `xml:"http://www.sap.com/Protocols/SAPData unicode,attr"`
	Semantics                   PropertySemantics `xml:"http://www.sap.com/Protocols/SAPData semantics,attr"`
	Creatable                   Flag              `xml:"http://www.sap.com/Protocols/SAPData creatable,attr"`
	Updatable                   Flag              `xml:"http://www.sap.com/Protocols/SAPData updatable,attr"`
	Sortable                    Flag              `xml:"http://www.sap.com/Protocols/SAPData sortable,attr"`
	Filterable                  Flag              `xml:"http://www.sap.com/Protocols/SAPData filterable,attr"`
	Addressable                 Flag              `xml:"http://www.sap.com/Protocols/SAPData addressable,attr"`
	RequiredInFilter            Flag              `xml:"http://www.sap.com/Protocols/SAPData required-in-filter,attr"`
	FilterRestriction           FilterRestriction `xml:"http://www.sap.com/Protocols/SAPData filter-restriction,attr"`
	FilterFor                   string            `xml:"http://www.sap.com/Protocols/SAPData filter-for,attr"`
	Text                        string            `xml:"http://www.sap.com/Protocols/SAPData text,attr"`
	TextFor                     string            `xml:"http://www.sap.com/Protocols/SAPData text-for,attr"`
	Unit                        string            `xml:"http://www.sap.com/Protocols/SAPData unit,attr"`
	PrecisionPath               string            `xml:"http://www.sap.com/Protocols/SAPData precision,attr"`
	Visible                     Flag              `xml:"http://www.sap.com/Protocols/SAPData visible,attr"`
	FieldControl                FieldControl      `xml:"http://www.sap.com/Protocols/SAPData field-control,attr"`
	ValidationRegexp            string            `xml:"http://www.sap.com/Protocols/SAPData validation-regexp,attr"`
	DisplayFormat               DisplayFormat     `xml:"http://www.sap.com/Protocols/SAPData display-format,attr"`
	ValueList                   ValueList         `xml:"http://www.sap.com/Protocols/SAPData value-list,attr"`
	LowerBoundary               string            `xml:"http://www.sap.com/Protocols/SAPData lower-boundary,attr"`
	UpperBoundary               string            `xml:"http://www.sap.com/Protocols/SAPData upper-boundary,attr"`
	AggregationRole             AggregationRole   `xml:"http://www.sap.com/Protocols/SAPData aggregation-role,attr"`
	SuperOrdinate               string            `xml:"http://www.sap.com/Protocols/SAPData super-ordinate,attr"`
	AttributeFor                string            `xml:"http://www.sap.com/Protocols/SAPData attribute-for,attr"`
	HierarchyNodeFor            string            `xml:"http://www.sap.com/Protocols/SAPData hierarchy-node-for,attr"`
	HierarchyNodeExternalKeyFor string            `xml:"http://www.sap.com/Protocols/SAPData hierarchy-node-external-key-for,attr"`
	HierarchyLevelFor           string            `xml:"http://www.sap.com/Protocols/SAPData hierarchy-level-for,attr"`
	HierarchyParentNodeFor      string            `xml:"http://www.sap.com/Protocols/SAPData hierarchy-parent-node-for,attr"`
	HierarchyDrillStateFor      string            `xml:"http://www.sap.com/Protocols/SAPData hierarchy-drill-state-for,attr"`
	Parameter                   ParameterKind     `xml:"http://www.sap.com/Protocols/SAPData parameter,attr"`
	IsAnnotation                Flag              `xml:"http://www.sap.com/Protocols/SAPData is-annotation,attr"`
	UpdatablePath               string            `xml:"http://www.sap.com/Protocols/SAPData updatable-path,attr"`
	PreserveFlagFor             string            `xml:"http://www.sap.com/Protocols/SAPData preserve-flag-for,attr"`
	VariableScale               Flag              `xml:"http://www.sap.com/Protocols/SAPData variable-scale,attr"`
}

// DefaultPropertyAnnotations returns the values SAP assumes when an attribute
// is absent.
func DefaultPropertyAnnotations() PropertyAnnotations {
	return PropertyAnnotations{
		Unicode:     true,
		Creatable:   true,
		Updatable:   true,
		Sortable:    true,
		Filterable:  true,
		Addressable: true,
		Visible:     true,
	}
}

// EntityTypeAnnotations are the sap:* attributes of an EntityType.
type EntityTypeAnnotations struct {
	Label          string              `xml:"http://www.sap.com/Protocols/SAPData label,attr"`
	Semantics      EntityTypeSemantics `xml:"http://www.sap.com/Protocols/SAPData semantics,attr"`
	ContentVersion string              `xml:"http://www.sap.com/Protocols/SAPData content-version,attr"`
}

// DefaultEntityTypeAnnotations returns the values SAP assumes when an
// attribute is absent.
func DefaultEntityTypeAnnotations() EntityTypeAnnotations {
	return EntityTypeAnnotations{ContentVersion: "1"}
}

// EntitySetAnnotations are the sap:* attributes of an EntitySet.
type EntitySetAnnotations struct {
	Label             string             `xml:"http://www.sap.com/Protocols/SAPData label,attr"`
	Semantics         EntitySetSemantics `xml:"http://www.sap.com/Protocols/SAPData semantics,attr"`
	Creatable         Flag               `xml:"http://www.sap.com/Protocols/SAPData creatable,attr"`
	Updatable         Flag               `xml:"http://www.sap.com/Protocols/SAPData updatable,attr"`
	Deletable         Flag               `xml:"http://www.sap.com/Protocols/SAPData deletable,attr"`
	Searchable        Flag               `xml:"http://www.sap.com/Protocols/SAPData searchable,attr"`
	Pageable          Flag               `xml:"http://www.sap.com/Protocols/SAPData pageable,attr"`
	Topable           Flag               `xml:"http://www.sap.com/Protocols/SAPData topable,attr"`
	Countable         Flag               `xml:"http://www.sap.com/Protocols/SAPData countable,attr"`
	Addressable       Flag               `xml:"http://www.sap.com/Protocols/SAPData addressable,attr"`
	RequiresFilter    Flag               `xml:"http://www.sap.com/Protocols/SAPData requires-filter,attr"`
	ChangeTracking    Flag               `xml:"http://www.sap.com/Protocols/SAPData change-tracking,attr"`
	MaxPageSize       string             `xml:"http://www.sap.com/Protocols/SAPData maxpagesize,attr"`
	DeltaLinkValidity string             `xml:"http://www.sap.com/Protocols/SAPData delta-link-validity,attr"`
	CreatablePath     string             `xml:"http://www.sap.com/Protocols/SAPData creatable-path,attr"`
	UpdatablePath     string             `xml:"http://www.sap.com/Protocols/SAPData updatable-path,attr"`
	DeletablePath     string             `xml:"http://www.sap.com/Protocols/SAPData deletable-path,attr"`
	ContentVersion    string             `xml:"http://www.sap.com/Protocols/SAPData content-version,attr"`
}

// DefaultEntitySetAnnotations returns the values SAP assumes when an
// attribute is absent.
func DefaultEntitySetAnnotations() EntitySetAnnotations {
	return EntitySetAnnotations{
		Creatable:      true,
		Updatable:      true,
		Deletable:      true,
		Pageable:       true,
		Topable:        true,
		Countable:      true,
		Addressable:    true,
		ContentVersion: "1",
	}
}

// AssociationAnnotations are the sap:* attributes of an Association.
type AssociationAnnotations struct {
	ContentVersion string `xml:"http://www.sap.com/Protocols/SAPData content-version,attr"`
}

// DefaultAssociationAnnotations returns the values SAP assumes when an
// attribute is absent.
func DefaultAssociationAnnotations() AssociationAnnotations {
	return AssociationAnnotations{ContentVersion: "1"}
}

// AssociationSetAnnotations are the sap:* attributes of an AssociationSet.
type AssociationSetAnnotations struct {
	Creatable      Flag   `xml:"http://www.sap.com/Protocols/SAPData creatable,attr"`
	Updatable      Flag   `xml:"http://www.sap.com/Protocols/SAPData updatable,attr"`
	Deletable      Flag   `xml:"http://www.sap.com/Protocols/SAPData deletable,attr"`
	ContentVersion string `xml:"http://www.sap.com/Protocols/SAPData content-version,attr"`
}

// DefaultAssociationSetAnnotations returns the values SAP assumes when an
// attribute is absent.
func DefaultAssociationSetAnnotations() AssociationSetAnnotations {
	return AssociationSetAnnotations{
		Creatable:      true,
		Updatable:      true,
		Deletable:      true,
		ContentVersion: "1",
	}
}

// NavigationPropertyAnnotations are the sap:* attributes of a NavigationProperty.
type NavigationPropertyAnnotations struct {
	Creatable     Flag   `xml:"http://www.sap.com/Protocols/SAPData creatable,attr"`
	CreatablePath string `xml:"http://www.sap.com/Protocols/SAPData creatable-path,attr"`
	FilterFor     string `xml:"http://www.sap.com/Protocols/SAPData filter-for,attr"`
}

// DefaultNavigationPropertyAnnotations returns the values SAP assumes when
// an attribute is absent.
func DefaultNavigationPropertyAnnotations() NavigationPropertyAnnotations {
	return NavigationPropertyAnnotations{Creatable: true}
}

// FunctionImportAnnotations are the sap:* attributes of a FunctionImport.
type FunctionImportAnnotations struct {
	Label          string `xml:"http://www.sap.com/Protocols/SAPData label,attr"`
	ActionFor      string `xml:"http://www.sap.com/Protocols/SAPData action-for,attr"`
	ApplicablePath string `xml:"http://www.sap.com/Protocols/SAPData applicable-path,attr"`
}

// ParameterAnnotations are the sap:* attributes of a function import Parameter.
type ParameterAnnotations struct {
	Label string `xml:"http://www.sap.com/Protocols/SAPData label,attr"`
}

// EntityContainerAnnotations are the sap:* attributes of an EntityContainer.
type EntityContainerAnnotations struct {
	MessageScopeSupported Flag    `xml:"http://www.sap.com/Protocols/SAPData message-scope-supported,attr"`
	UseBatch              Flag    `xml:"http://www.sap.com/Protocols/SAPData use-batch,attr"`
	SupportedFormats      Formats `xml:"http://www.sap.com/Protocols/SAPData supported-formats,attr"`
}

// DefaultEntityContainerAnnotations returns the values SAP assumes when an
// attribute is absent.
func DefaultEntityContainerAnnotations() EntityContainerAnnotations {
	return EntityContainerAnnotations{SupportedFormats: Formats{"atom", "json"}}
}
