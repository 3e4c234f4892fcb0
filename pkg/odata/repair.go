package odata

import (
	"bytes"
	"regexp"
)

// SAP Gateway emits weak etags as m:etag="W/"..."" with the inner quotes
// either raw or entity encoded.
var weakETag = regexp.MustCompile(`m:etag="W/(?:"|&quot;)([^"&]*)(?:"|&quot;)"`)

// Repair fixes the known malformations of SAP Gateway Atom output. ETags are
// repaired before ampersands so the ampersand pass never sees the broken
// attribute quoting. Repair is idempotent.
func Repair(b []byte) []byte {
	return RepairAmpersands(RepairETags(b))
}

// RepairETags rewrites weak etag attributes to a single quoted value.
func RepairETags(b []byte) []byte {
	return weakETag.ReplaceAll(b, []byte(`m:etag="$1"`))
}

// RepairAmpersands escapes a literal '&' that does not start an entity
// reference when it sits between two non-space bytes or between two single
// spaces. Valid references such as &amp; and &#38; are left alone.
func RepairAmpersands(b []byte) []byte {
	if bytes.IndexByte(b, '&') < 0 {
		return b
	}
	out := make([]byte, 0, len(b)+16)
	for i, c := range b {
		if c != '&' || entityAt(b[i:]) || !bareAmpersand(b, i) {
			out = append(out, c)
			continue
		}
		out = append(out, "&amp;"...)
	}
	return out
}

func bareAmpersand(b []byte, i int) bool {
	if i == 0 || i == len(b)-1 {
		return false
	}
	prev, next := b[i-1], b[i+1]
	if !isSpace(prev) && !isSpace(next) {
		return true
	}
	return prev == ' ' && next == ' '
}

var namedEntities = [][]byte{
	[]byte("&amp;"),
	[]byte("&lt;"),
	[]byte("&gt;"),
	[]byte("&quot;"),
	[]byte("&apos;"),
}

// entityAt reports whether b starts with a predefined or numeric character
// reference.
func entityAt(b []byte) bool {
	for _, e := range namedEntities {
		if bytes.HasPrefix(b, e) {
			return true
		}
	}
	if len(b) < 4 || b[1] != '#' {
		return false
	}
	digits := b[2:]
	hex := false
	if digits[0] == 'x' {
		hex = true
		digits = digits[1:]
	}
	n := 0
	for n < len(digits) && isDigit(digits[n], hex) {
		n++
	}
	return n > 0 && n < len(digits) && digits[n] == ';'
}

func isDigit(c byte, hex bool) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case hex:
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
