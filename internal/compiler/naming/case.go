// Package naming turns schema identifiers into Go identifiers. Every function
// is pure; the same input always yields the same output.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeName converts a schema identifier to an exported Go type name.
// Separators are dropped and each segment keeps its own casing after an
// upper-cased first letter, so CT_Address becomes CTAddress.
func TypeName(s string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, seg := range segments(s) {
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteString(title.String(string(r)))
		b.WriteString(seg[size:])
	}
	out := b.String()
	if out == "" || unicode.IsDigit([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// FieldName converts a property name to an exported struct field name.
func FieldName(s string) string {
	name := TypeName(s)
	if emitterReserved[name] {
		return name + "_"
	}
	return name
}

// ParamName converts a schema identifier to a lowerCamel Go identifier for
// generated parameters. Go keywords and predeclared identifiers are escaped.
func ParamName(s string) string {
	return Escape(lowerFirstWord(TypeName(s)))
}

// VariantName builds the constant name of an enum variant.
func VariantName(enum, s string) string {
	return enum + TypeName(s)
}

// ToSnakeCase converts CamelCase to snake_case.
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '-' || r == ' ' || r == '.' {
			runes[i] = '_'
		}
	}

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase or a digit
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// segments splits an identifier on every rune that cannot appear in a Go
// identifier.
func segments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// lowerFirstWord lowers the leading run of upper-case letters, keeping the
// last one when it starts the next word: CTAddress -> ctAddress, ID -> id.
func lowerFirstWord(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// whole leading run
	case unicode.IsLower(runes[n]):
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
