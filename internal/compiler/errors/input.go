package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/sapodata/odatagen/pkg/edmx"
)

// Input error codes (IO001-099, PAR001-099)
const (
	// ErrReadFailed indicates the metadata file could not be read
	ErrReadFailed ErrorCode = "IO001"
	// ErrMalformedXML indicates the document is not well-formed XML
	ErrMalformedXML ErrorCode = "PAR001"
	// ErrEncoding indicates the document bytes could not be decoded
	ErrEncoding ErrorCode = "PAR002"
	// ErrSchemaShape indicates well-formed XML that is not a usable EDMX document
	ErrSchemaShape ErrorCode = "PAR003"
)

// NewReadFailed creates an IO001 error
func NewReadFailed(path string, err error) *CompilerError {
	return newError(
		ErrReadFailed,
		"read_failed",
		CategoryIO,
		SeverityError,
		fmt.Sprintf("Cannot read metadata document: %v", err),
		Location{},
	).WithFile(path).WithCause(err).
		WithSuggestion("Check the path, or download the document with 'odatagen fetch --metadata'")
}

// NewParseFailed maps an edmx parse error onto PAR001, PAR002 or PAR003.
// Any other error is reported as PAR003.
func NewParseFailed(err error) *CompilerError {
	var perr *edmx.ParseError
	if !stderrors.As(err, &perr) {
		return newError(ErrSchemaShape, "schema_shape", CategoryParse, SeverityError,
			fmt.Sprintf("Invalid metadata document: %v", err), Location{}).WithCause(err)
	}

	switch perr.Kind {
	case edmx.KindMalformedXML:
		return newError(
			ErrMalformedXML,
			"malformed_xml",
			CategoryParse,
			SeverityError,
			fmt.Sprintf("Malformed XML: %v", perr.Err),
			Location{},
		).WithCause(err)
	case edmx.KindEncoding:
		return newError(
			ErrEncoding,
			"encoding",
			CategoryParse,
			SeverityError,
			fmt.Sprintf("Cannot decode document text: %v", perr.Err),
			Location{},
		).WithCause(err).WithSuggestion("Save the document as UTF-8 or declare its charset in the XML prolog")
	default:
		return newError(
			ErrSchemaShape,
			"schema_shape",
			CategoryParse,
			SeverityError,
			fmt.Sprintf("Invalid metadata document: %v", perr.Err),
			Location{},
		).WithCause(err).WithExpected("edmx:Edmx > edmx:DataServices > Schema")
	}
}
