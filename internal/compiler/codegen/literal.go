package codegen

import (
	"encoding/xml"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

var xmlNameType = reflect.TypeOf(xml.Name{})

// literal renders v as a Go composite literal of schema model values. Zero
// fields are omitted, *int is written through edmx.Int and xml.Name fields are
// skipped. The first line starts with the expression; continuation lines carry
// their own leading tabs.
func literal(v any) []string {
	return valueLines(reflect.ValueOf(v), false)
}

// wrap prefixes the first line and suffixes the last.
func wrap(prefix string, lines []string, suffix string) []string {
	out := slices.Clone(lines)
	out[0] = prefix + out[0]
	out[len(out)-1] += suffix
	return out
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "\t" + l
	}
	return out
}

// valueLines renders one value. elide drops the type name of struct
// elements inside a slice literal.
func valueLines(v reflect.Value, elide bool) []string {
	switch v.Kind() {
	case reflect.String:
		return []string{strconv.Quote(v.String())}
	case reflect.Bool:
		return []string{strconv.FormatBool(v.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{strconv.FormatInt(v.Int(), 10)}
	case reflect.Pointer:
		if v.IsNil() {
			return []string{"nil"}
		}
		if v.Elem().Kind() == reflect.Int {
			return []string{"edmx.Int(" + strconv.FormatInt(v.Elem().Int(), 10) + ")"}
		}
		return wrap("&", valueLines(v.Elem(), false), "")
	case reflect.Slice:
		return sliceLines(v)
	case reflect.Struct:
		return structLines(v, elide)
	}
	return []string{"nil"}
}

func sliceLines(v reflect.Value) []string {
	typ := v.Type().String()
	if v.Len() == 0 {
		return []string{typ + "{}"}
	}
	if v.Type().Elem().Kind() != reflect.Struct {
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = valueLines(v.Index(i), true)[0]
		}
		return []string{typ + "{" + strings.Join(parts, ", ") + "}"}
	}

	lines := []string{typ + "{"}
	for i := 0; i < v.Len(); i++ {
		lines = append(lines, indent(wrap("", valueLines(v.Index(i), true), ","))...)
	}
	return append(lines, "}")
}

func structLines(v reflect.Value, elide bool) []string {
	head := v.Type().String()
	if elide {
		head = ""
	}

	var fields [][]string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if !sf.IsExported() || sf.Type == xmlNameType || fv.IsZero() {
			continue
		}
		fields = append(fields, wrap(sf.Name+": ", valueLines(fv, false), ""))
	}

	switch {
	case len(fields) == 0:
		return []string{head + "{}"}
	case len(fields) == 1 && len(fields[0]) == 1:
		return []string{head + "{" + fields[0][0] + "}"}
	}
	lines := []string{head + "{"}
	for _, f := range fields {
		lines = append(lines, indent(wrap("", f, ","))...)
	}
	return append(lines, "}")
}
