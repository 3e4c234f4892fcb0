package errors

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/sapodata/odatagen/pkg/edmx"
)

func TestErrorCodeUniqueness(t *testing.T) {
	codes := make(map[ErrorCode]bool)
	all := []ErrorCode{
		ErrReadFailed, ErrMalformedXML, ErrEncoding, ErrSchemaShape,
		ErrNamespaceNotFound, ErrUnqualifiedType,
		ErrDanglingPropertyRef, ErrMissingComplexType, ErrUnknownEndType,
		ErrFormatFailed,
	}

	for _, code := range all {
		if codes[code] {
			t.Errorf("Duplicate error code %s", code)
		}
		codes[code] = true
	}
}

func TestNewParseFailed(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"malformed", &edmx.ParseError{Kind: edmx.KindMalformedXML, Err: stderrors.New("unexpected EOF")}, ErrMalformedXML},
		{"encoding", &edmx.ParseError{Kind: edmx.KindEncoding, Err: stderrors.New("invalid UTF-8")}, ErrEncoding},
		{"shape", &edmx.ParseError{Kind: edmx.KindSchemaShape, Err: stderrors.New("no Schema")}, ErrSchemaShape},
		{"foreign", stderrors.New("boom"), ErrSchemaShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParseFailed(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, got.Code)
			}
			if got.Severity != SeverityError {
				t.Errorf("Expected severity error, got %s", got.Severity)
			}
			if !stderrors.Is(got, tt.err) {
				t.Errorf("Expected diagnostic to unwrap to the parse error")
			}
		})
	}
}

func TestNewReadFailed(t *testing.T) {
	err := NewReadFailed("missing.xml", fs.ErrNotExist)
	if err.File != "missing.xml" {
		t.Errorf("Expected file 'missing.xml', got '%s'", err.File)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected diagnostic to unwrap to fs.ErrNotExist")
	}
}

func TestErrorJSONSerialization(t *testing.T) {
	err := NewUnqualifiedType(At("NS.Product", "Weight"), "Decimal")

	data, jsonErr := json.Marshal(err)
	if jsonErr != nil {
		t.Fatalf("Failed to serialize error to JSON: %v", jsonErr)
	}

	var parsed CompilerError
	if unmarshalErr := json.Unmarshal(data, &parsed); unmarshalErr != nil {
		t.Fatalf("Failed to parse error JSON: %v", unmarshalErr)
	}

	if parsed.Code != ErrUnqualifiedType {
		t.Errorf("Expected code %s, got %s", ErrUnqualifiedType, parsed.Code)
	}
	if parsed.Category != CategoryType {
		t.Errorf("Expected category %s, got %s", CategoryType, parsed.Category)
	}
	if parsed.Severity != SeverityWarning {
		t.Errorf("Expected severity %s, got %s", SeverityWarning, parsed.Severity)
	}
	if parsed.Location.Element != "NS.Product/Weight" {
		t.Errorf("Expected element 'NS.Product/Weight', got '%s'", parsed.Location.Element)
	}
	if parsed.Actual != "Decimal" {
		t.Errorf("Expected actual 'Decimal', got '%s'", parsed.Actual)
	}
}

func TestErrorList(t *testing.T) {
	list := ErrorList{
		NewUnqualifiedType(At("NS.E", "P"), "String"),
		NewMissingComplexType(At("NS.E", "Address"), "NS.CT_Missing", []string{"CT_Address"}),
		NewNamespaceNotFound("NOPE", []string{"NS"}),
	}

	if !list.HasErrors() {
		t.Error("Expected HasErrors to be true")
	}
	errs, warns, info := list.ErrorCount()
	if errs != 1 || warns != 2 || info != 0 {
		t.Errorf("Expected 1/2/0, got %d/%d/%d", errs, warns, info)
	}

	list.WithFile("svc.xml")
	for _, e := range list {
		if e.File != "svc.xml" {
			t.Errorf("Expected file to be set on %s", e.Code)
		}
	}

	formatted := list.Error()
	if !strings.Contains(formatted, "Compilation failed with 1 error(s), 2 warning(s)") {
		t.Errorf("Unexpected summary: %s", formatted)
	}
	if !strings.Contains(formatted, "CT_Address") {
		t.Errorf("Expected known complex types in output")
	}
}

func TestFormatCompact(t *testing.T) {
	err := NewDanglingPropertyRef(At("NS.E", "Key"), "Missing", "NS.E").WithFile("svc.xml")
	got := FormatCompact(err)
	want := "svc.xml: NS.E/Key: warning: PropertyRef 'Missing' does not name a property of 'NS.E' [REF301]"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if err.Error() != want {
		t.Errorf("Expected Error() to use the compact form")
	}
}

func TestEmptyListFormatting(t *testing.T) {
	if ErrorList(nil).Error() != "no errors" {
		t.Error("Expected 'no errors'")
	}
}
