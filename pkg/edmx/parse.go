package edmx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// KindMalformedXML means the document is not well-formed XML.
	KindMalformedXML ErrorKind = iota
	// KindEncoding means the document bytes could not be decoded as text.
	KindEncoding
	// KindSchemaShape means the XML is well-formed but is not a usable EDMX document.
	KindSchemaShape
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedXML:
		return "malformed xml"
	case KindEncoding:
		return "encoding"
	case KindSchemaShape:
		return "schema shape"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is returned by Parse when a document cannot be turned into a model.
type ParseError struct {
	Kind ErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("edmx: %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func shapeError(format string, args ...any) *ParseError {
	return &ParseError{Kind: KindSchemaShape, Err: fmt.Errorf(format, args...)}
}

// Parse decodes a metadata document.
func Parse(doc []byte) (*Edmx, error) {
	return ParseReader(bytes.NewReader(doc))
}

// ParseReader decodes a metadata document read from r.
func ParseReader(r io.Reader) (*Edmx, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	declaredUTF8 := true
	var charsetErr error
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		declaredUTF8 = false
		r, err := charsetReader(label, input)
		charsetErr = err
		return r, err
	}

	var doc Edmx
	if err := dec.Decode(&doc); err != nil {
		if charsetErr != nil {
			return nil, &ParseError{Kind: KindEncoding, Err: charsetErr}
		}
		return nil, classify(err)
	}
	if declaredUTF8 && !utf8.Valid(raw) {
		return nil, &ParseError{Kind: KindEncoding, Err: errors.New("document is not valid UTF-8")}
	}
	if err := checkShape(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func classify(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		if syntax.Msg == "invalid UTF-8" {
			return &ParseError{Kind: KindEncoding, Err: err}
		}
		return &ParseError{Kind: KindMalformedXML, Err: err}
	}
	if errors.Is(err, io.EOF) {
		return &ParseError{Kind: KindMalformedXML, Err: errors.New("empty document")}
	}
	return &ParseError{Kind: KindSchemaShape, Err: err}
}

// checkShape verifies the attributes every later stage relies on.
func checkShape(doc *Edmx) error {
	if doc.XMLName.Local != "Edmx" {
		return shapeError("root element is %q, want Edmx", doc.XMLName.Local)
	}
	if len(doc.DataServices.Schemas) == 0 {
		return shapeError("no Schema inside DataServices")
	}
	for i := range doc.DataServices.Schemas {
		s := &doc.DataServices.Schemas[i]
		if s.Namespace == "" {
			return shapeError("schema %d has no Namespace", i)
		}
		for _, et := range s.EntityTypes {
			if et.Name == "" {
				return shapeError("%s: EntityType without Name", s.Namespace)
			}
			if err := checkProperties(s.Namespace+"."+et.Name, et.Properties); err != nil {
				return err
			}
		}
		for _, ct := range s.ComplexTypes {
			if ct.Name == "" {
				return shapeError("%s: ComplexType without Name", s.Namespace)
			}
			if err := checkProperties(s.Namespace+"."+ct.Name, ct.Properties); err != nil {
				return err
			}
		}
		for _, a := range s.Associations {
			if a.Name == "" {
				return shapeError("%s: Association without Name", s.Namespace)
			}
			if len(a.Ends) != 2 {
				return shapeError("%s.%s: association has %d ends, want 2", s.Namespace, a.Name, len(a.Ends))
			}
		}
		for _, c := range s.EntityContainers {
			for _, set := range c.EntitySets {
				if set.Name == "" {
					return shapeError("%s: EntitySet without Name", c.Name)
				}
			}
			for _, set := range c.AssociationSets {
				if set.Name == "" {
					return shapeError("%s: AssociationSet without Name", c.Name)
				}
			}
		}
	}
	return nil
}

func checkProperties(owner string, props []Property) error {
	for _, p := range props {
		if p.Name == "" {
			return shapeError("%s: Property without Name", owner)
		}
		if p.Type == "" {
			return shapeError("%s.%s: Property without Type", owner, p.Name)
		}
	}
	return nil
}
