package odata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// DecodeFeed repairs and decodes an Atom feed.
func DecodeFeed[T any](b []byte) (*Feed[T], error) {
	var f Feed[T]
	if err := decode(b, &f); err != nil {
		return nil, fmt.Errorf("odata: decode feed: %w", err)
	}
	return &f, nil
}

// DecodeEntry repairs and decodes a single Atom entry.
func DecodeEntry[T any](b []byte) (*Entry[T], error) {
	var e Entry[T]
	if err := decode(b, &e); err != nil {
		return nil, fmt.Errorf("odata: decode entry: %w", err)
	}
	return &e, nil
}

// DecodeProperties repairs and decodes a bare m:properties document, as
// returned by function imports, into v.
func DecodeProperties(b []byte, v any) error {
	if err := decode(b, v); err != nil {
		return fmt.Errorf("odata: decode properties: %w", err)
	}
	return nil
}

// ReadFeed is DecodeFeed for a stream.
func ReadFeed[T any](r io.Reader) (*Feed[T], error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeFeed[T](b)
}

func decode(b []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(Repair(b)))
	return dec.Decode(v)
}
