package naming

import (
	"go/token"
	"strings"
)

// predeclared holds Go's predeclared identifiers. Shadowing them in generated
// code compiles but breaks any later use of the builtin.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"true": true, "false": true, "iota": true, "nil": true,
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true,
}

// emitterReserved are names the generated code already uses on every
// entity struct.
var emitterReserved = map[string]bool{
	"XMLName":      true,
	"KeyPredicate": true,
}

// IsReserved reports whether ident is a Go keyword or predeclared identifier.
func IsReserved(ident string) bool {
	return token.IsKeyword(ident) || predeclared[ident]
}

// IsReservedTypeName reports whether a canonical type name is a Go keyword or
// builtin once lower-cased, such as String or Int64.
func IsReservedTypeName(name string) bool {
	return IsReserved(strings.ToLower(name))
}

// Escape appends an underscore to reserved identifiers: type -> type_.
func Escape(ident string) string {
	if IsReserved(ident) {
		return ident + "_"
	}
	return ident
}
