// Package odata binds OData v2 Atom documents returned by SAP Gateway to Go
// types. Feed and Entry are generic over the entity payload, which is either a
// type emitted by odatagen or the dynamic Properties bag.
//
// Every decode entry point runs Repair before handing bytes to encoding/xml.
package odata

import (
	"encoding/xml"
	"time"
)

// Feed is an Atom feed of entries carrying T.
type Feed[T any] struct {
	XMLName   xml.Name   `xml:"http://www.w3.org/2005/Atom feed"`
	Namespace string     `xml:"xmlns,attr"`
	Base      string     `xml:"http://www.w3.org/XML/1998/namespace base,attr"`
	ID        string     `xml:"id"`
	Title     string     `xml:"title"`
	Updated   time.Time  `xml:"updated"`
	Author    Author     `xml:"author"`
	Links     []Link     `xml:"link"`
	Count     *int64     `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata count"`
	Entries   []Entry[T] `xml:"entry"`
}

// Link returns the href of the first link with the given rel.
func (f *Feed[T]) Link(rel string) (string, bool) {
	return findLink(f.Links, rel)
}

// NextLink returns the server-driven paging link, if any.
func (f *Feed[T]) NextLink() (string, bool) {
	return f.Link("next")
}

// Payloads returns the payload of every entry in document order.
func (f *Feed[T]) Payloads() []T {
	out := make([]T, 0, len(f.Entries))
	for i := range f.Entries {
		out = append(out, f.Entries[i].Payload())
	}
	return out
}

// Entry is a single Atom entry.
type Entry[T any] struct {
	XMLName    xml.Name   `xml:"entry"`
	ETag       string     `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata etag,attr"`
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Updated    time.Time  `xml:"updated"`
	Category   Category   `xml:"category"`
	Links      []Link     `xml:"link"`
	Content    Content[T] `xml:"content"`
	Properties *T         `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata properties"`
}

// Payload returns the entity. Media link entries carry their properties next
// to an empty content element; those are returned instead.
func (e *Entry[T]) Payload() T {
	if e.Properties != nil {
		return *e.Properties
	}
	return e.Content.Properties
}

// Link returns the href of the first link with the given rel.
func (e *Entry[T]) Link(rel string) (string, bool) {
	return findLink(e.Links, rel)
}

// IsMediaLink reports whether the entry describes a media resource.
func (e *Entry[T]) IsMediaLink() bool {
	return e.Content.Src != ""
}

// Content wraps the inline entity properties of an entry.
type Content[T any] struct {
	Type       string `xml:"type,attr"`
	Src        string `xml:"src,attr"`
	Properties T      `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata properties"`
}

// Author is the Atom author element.
type Author struct {
	Name  string `xml:"name"`
	URI   string `xml:"uri"`
	Email string `xml:"email"`
}

// Link is an Atom link. Navigation links carry the navigation property name
// in Title.
type Link struct {
	Rel   string `xml:"rel,attr"`
	Href  string `xml:"href,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// Category names the entity type of an entry.
type Category struct {
	Term   string `xml:"term,attr"`
	Scheme string `xml:"scheme,attr"`
}

func findLink(links []Link, rel string) (string, bool) {
	for _, l := range links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}
