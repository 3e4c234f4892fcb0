package odata

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sapodata/odatagen/pkg/edmx"
)

// ValueError reports a property value that does not match its Edm wire format.
type ValueError struct {
	Type  string
	Input string
	Err   error
}

func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("odata: invalid %s %q: %v", e.Type, e.Input, e.Err)
	}
	return fmt.Sprintf("odata: invalid %s %q", e.Type, e.Input)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// readText decodes the character data of a property element and reports
// whether it carries m:null="true".
func readText(d *xml.Decoder, start xml.StartElement) (string, bool, error) {
	null := false
	for _, a := range start.Attr {
		if a.Name.Local == "null" && a.Name.Space == edmx.MetadataNamespace {
			null = bool(edmx.ParseFlag(a.Value))
		}
	}
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return "", false, err
	}
	return strings.TrimSpace(s), null, nil
}

// Decimal is an Edm.Decimal. Values are parsed from their decimal text and
// never pass through a binary float.
type Decimal struct {
	decimal.Decimal
}

// ParseDecimal parses an Edm.Decimal value. SAP sends an empty element for
// initial amounts, which reads as zero.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, &ValueError{Type: "Edm.Decimal", Input: s, Err: err}
	}
	return Decimal{v}, nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (d *Decimal) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null {
		*d = Decimal{}
		return nil
	}
	v, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// NullDecimal is a nullable Edm.Decimal.
type NullDecimal struct {
	decimal.NullDecimal
}

// ParseNullDecimal parses a nullable Edm.Decimal. Empty input is null.
func ParseNullDecimal(s string) (NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullDecimal{}, nil
	}
	v, err := ParseDecimal(s)
	if err != nil {
		return NullDecimal{}, err
	}
	return NullDecimal{decimal.NewNullDecimal(v.Decimal)}, nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (d *NullDecimal) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null {
		*d = NullDecimal{}
		return nil
	}
	v, err := ParseNullDecimal(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DateTime is an Edm.DateTime or Edm.DateTimeOffset.
type DateTime struct {
	time.Time
}

var jsonDate = regexp.MustCompile(`^/Date\((-?\d+)([+-]\d{4})?\)/$`)

// ParseDateTime accepts the three encodings SAP Gateway produces: an ISO
// timestamp without zone (read as UTC), RFC 3339, and /Date(ms+offset)/ where
// the offset is in minutes.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	if m := jsonDate.FindStringSubmatch(s); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return DateTime{}, &ValueError{Type: "Edm.DateTime", Input: s, Err: err}
		}
		t := time.UnixMilli(ms).UTC()
		if m[2] != "" {
			offset, _ := strconv.Atoi(m[2])
			t = t.In(time.FixedZone("", offset*60))
		}
		return DateTime{t}, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return DateTime{t}, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return DateTime{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateTime{}, &ValueError{Type: "Edm.DateTime", Input: s, Err: err}
	}
	return DateTime{t}, nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (t *DateTime) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null || s == "" {
		*t = DateTime{}
		return nil
	}
	v, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// NullDateTime is a nullable Edm.DateTime.
type NullDateTime struct {
	Time  time.Time
	Valid bool
}

// ParseNullDateTime parses a nullable Edm.DateTime. Empty input is null.
func ParseNullDateTime(s string) (NullDateTime, error) {
	if strings.TrimSpace(s) == "" {
		return NullDateTime{}, nil
	}
	v, err := ParseDateTime(s)
	if err != nil {
		return NullDateTime{}, err
	}
	return NullDateTime{Time: v.Time, Valid: true}, nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (t *NullDateTime) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null {
		*t = NullDateTime{}
		return nil
	}
	v, err := ParseNullDateTime(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Duration is an Edm.Time, serialized as an XML schema duration such as
// PT12H30M15S.
type Duration struct {
	time.Duration
}

// ParseDuration parses an XML schema day-time duration.
func ParseDuration(s string) (Duration, error) {
	in := strings.TrimSpace(s)
	fail := func() (Duration, error) {
		return Duration{}, &ValueError{Type: "Edm.Time", Input: s}
	}

	neg := strings.HasPrefix(in, "-")
	in = strings.TrimPrefix(in, "-")
	if !strings.HasPrefix(in, "P") || len(in) < 2 {
		return fail()
	}
	in = in[1:]

	var total time.Duration
	datePart, timePart, hasTime := strings.Cut(in, "T")
	if hasTime && timePart == "" {
		return fail()
	}
	if datePart != "" {
		days, rest, ok := durationField(datePart, 'D')
		if !ok || rest != "" {
			return fail()
		}
		total += time.Duration(days * float64(24*time.Hour))
	}
	units := []struct {
		designator byte
		unit       time.Duration
	}{
		{'H', time.Hour},
		{'M', time.Minute},
		{'S', time.Second},
	}
	rest := timePart
	for _, u := range units {
		if rest == "" {
			break
		}
		v, next, ok := durationField(rest, u.designator)
		if !ok {
			return fail()
		}
		total += time.Duration(v * float64(u.unit))
		rest = next
	}
	if rest != "" {
		return fail()
	}
	if neg {
		total = -total
	}
	return Duration{total}, nil
}

// durationField consumes "<number><designator>" from the front of s. A missing
// designator consumes nothing and yields zero.
func durationField(s string, designator byte) (float64, string, bool) {
	i := strings.IndexByte(s, designator)
	if i < 0 {
		return 0, s, true
	}
	if i == 0 {
		return 0, s, false
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || v < 0 {
		return 0, s, false
	}
	return v, s[i+1:], true
}

// String formats the duration in the same XML schema form it was read from.
func (d Duration) String() string {
	var buf bytes.Buffer
	v := d.Duration
	if v < 0 {
		buf.WriteByte('-')
		v = -v
	}
	buf.WriteByte('P')
	days := v / (24 * time.Hour)
	if days > 0 {
		buf.WriteString(strconv.FormatInt(int64(days), 10))
		buf.WriteByte('D')
		v -= days * 24 * time.Hour
	}
	if v == 0 {
		if days == 0 {
			buf.WriteString("T0S")
		}
		return buf.String()
	}
	buf.WriteByte('T')
	if h := v / time.Hour; h > 0 {
		buf.WriteString(strconv.FormatInt(int64(h), 10))
		buf.WriteByte('H')
		v -= h * time.Hour
	}
	if m := v / time.Minute; m > 0 {
		buf.WriteString(strconv.FormatInt(int64(m), 10))
		buf.WriteByte('M')
		v -= m * time.Minute
	}
	if v > 0 {
		buf.WriteString(strconv.FormatFloat(v.Seconds(), 'f', -1, 64))
		buf.WriteByte('S')
	}
	return buf.String()
}

// UnmarshalXML implements xml.Unmarshaler.
func (d *Duration) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null || s == "" {
		*d = Duration{}
		return nil
	}
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Binary is an Edm.Binary, base64 encoded on the wire.
type Binary []byte

// UnmarshalXML implements xml.Unmarshaler.
func (b *Binary) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null || s == "" {
		*b = nil
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return &ValueError{Type: "Edm.Binary", Input: s, Err: err}
	}
	*b = raw
	return nil
}

// NullGUID is a nullable Edm.Guid.
type NullGUID struct {
	uuid.NullUUID
}

// UnmarshalXML implements xml.Unmarshaler.
func (g *NullGUID) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	s, null, err := readText(dec, start)
	if err != nil {
		return err
	}
	if null || s == "" {
		*g = NullGUID{}
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return &ValueError{Type: "Edm.Guid", Input: s, Err: err}
	}
	*g = NullGUID{uuid.NullUUID{UUID: id, Valid: true}}
	return nil
}
