// Package resolve maps declared property types onto Go types.
package resolve

// Import paths referenced by resolved types.
const (
	ImportOData = "github.com/sapodata/odatagen/pkg/odata"
	ImportUUID  = "github.com/google/uuid"
)

// Decoder names the odata wire parser a field depends on. Decimal and
// DateTime values cannot be read with a generic text conversion.
type Decoder int

const (
	DecoderNone Decoder = iota
	DecoderDecimal
	DecoderNullDecimal
	DecoderDateTime
	DecoderNullDateTime
)

// Func returns the qualified parser function, or "" for DecoderNone.
func (d Decoder) Func() string {
	switch d {
	case DecoderDecimal:
		return "odata.ParseDecimal"
	case DecoderNullDecimal:
		return "odata.ParseNullDecimal"
	case DecoderDateTime:
		return "odata.ParseDateTime"
	case DecoderNullDateTime:
		return "odata.ParseNullDateTime"
	default:
		return ""
	}
}

// Type is a resolved Go type expression.
type Type struct {
	// Expr is the Go type as written in generated code.
	Expr string
	// Import is the package Expr refers to, if any.
	Import string
	// Decoder is set for Decimal and DateTime values.
	Decoder Decoder
	// Complex is the raw name of the complex type Expr names, when it is a
	// generated struct.
	Complex string
}

type primitive struct {
	expr, nullable string
	imp, nullImp   string
	dec, nullDec   Decoder
}

var primitives = map[string]primitive{
	"Binary":         {expr: "odata.Binary", nullable: "odata.Binary", imp: ImportOData, nullImp: ImportOData},
	"Boolean":        {expr: "bool", nullable: "*bool"},
	"Byte":           {expr: "uint8", nullable: "*uint8"},
	"SByte":          {expr: "int8", nullable: "*int8"},
	"Int16":          {expr: "int16", nullable: "*int16"},
	"Int32":          {expr: "int32", nullable: "*int32"},
	"Int64":          {expr: "int64", nullable: "*int64"},
	"Single":         {expr: "float32", nullable: "*float32"},
	"Double":         {expr: "float64", nullable: "*float64"},
	"Decimal":        {expr: "odata.Decimal", nullable: "odata.NullDecimal", imp: ImportOData, nullImp: ImportOData, dec: DecoderDecimal, nullDec: DecoderNullDecimal},
	"DateTime":       {expr: "odata.DateTime", nullable: "odata.NullDateTime", imp: ImportOData, nullImp: ImportOData, dec: DecoderDateTime, nullDec: DecoderNullDateTime},
	"DateTimeOffset": {expr: "odata.DateTime", nullable: "odata.NullDateTime", imp: ImportOData, nullImp: ImportOData, dec: DecoderDateTime, nullDec: DecoderNullDateTime},
	"Time":           {expr: "odata.Duration", nullable: "*odata.Duration", imp: ImportOData, nullImp: ImportOData},
	"Guid":           {expr: "uuid.UUID", nullable: "odata.NullGUID", imp: ImportUUID, nullImp: ImportOData},
	"Null":           {expr: "struct{}", nullable: "struct{}"},
}

// Primitive maps an Edm primitive name such as "Decimal" to its Go type.
// Unknown names, String included, map to string.
func Primitive(name string, nullable bool) Type {
	p, ok := primitives[name]
	if !ok {
		p = primitive{expr: "string", nullable: "*string"}
	}
	if nullable {
		return Type{Expr: p.nullable, Import: p.nullImp, Decoder: p.nullDec}
	}
	return Type{Expr: p.expr, Import: p.imp, Decoder: p.dec}
}
