package odata

import (
	"encoding/xml"
	"strings"

	"github.com/sapodata/odatagen/pkg/edmx"
)

// Value is one property of a dynamically decoded payload. Complex values
// keep their members in Children and leave Text empty.
type Value struct {
	Name     string
	Type     string
	Null     bool
	Text     string
	Children []Value
}

// Get returns the named member of a complex value.
func (v Value) Get(name string) (Value, bool) {
	return lookup(v.Children, name)
}

// IsComplex reports whether the value has members.
func (v Value) IsComplex() bool {
	return len(v.Children) > 0
}

// Decimal parses the value as an Edm.Decimal.
func (v Value) Decimal() (Decimal, error) {
	return ParseDecimal(v.Text)
}

// DateTime parses the value as an Edm.DateTime.
func (v Value) DateTime() (DateTime, error) {
	return ParseDateTime(v.Text)
}

// Properties is an m:properties payload decoded without a generated type.
// Property order follows the document.
type Properties struct {
	Values []Value
}

// Get returns the named top-level property.
func (p Properties) Get(name string) (Value, bool) {
	return lookup(p.Values, name)
}

// Path resolves a slash separated path such as "Address/City".
func (p Properties) Path(path string) (Value, bool) {
	parts := strings.Split(path, "/")
	v, ok := p.Get(parts[0])
	for _, part := range parts[1:] {
		if !ok {
			break
		}
		v, ok = v.Get(part)
	}
	return v, ok
}

// Names lists the top-level property names in document order.
func (p Properties) Names() []string {
	out := make([]string, 0, len(p.Values))
	for _, v := range p.Values {
		out = append(out, v.Name)
	}
	return out
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	v, err := decodeValue(d, start)
	if err != nil {
		return err
	}
	p.Values = v.Children
	return nil
}

func decodeValue(d *xml.Decoder, start xml.StartElement) (Value, error) {
	v := Value{Name: start.Name.Local}
	for _, a := range start.Attr {
		if a.Name.Space != edmx.MetadataNamespace {
			continue
		}
		switch a.Name.Local {
		case "type":
			v.Type = a.Value
		case "null":
			v.Null = bool(edmx.ParseFlag(a.Value))
		}
	}

	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return v, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeValue(d, t)
			if err != nil {
				return v, err
			}
			v.Children = append(v.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(v.Children) == 0 {
				v.Text = text.String()
			}
			return v, nil
		}
	}
}

func lookup(values []Value, name string) (Value, bool) {
	for _, v := range values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}
