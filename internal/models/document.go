package models

import "time"

type Kind string

const (
	KindArticle Kind = "article"
	KindPage    Kind = "page"
	KindStatic  Kind = "static"
)

// Document is a single piece of content as seen by the resolver. Date and
// Modified are nil until something sets them.
type Document struct {
	SourcePath     string
	Kind           Kind
	Metadata       map[string]string
	Date           *time.Time
	Modified       *time.Time
	DateFormat     string
	LocaleDate     string
	LocaleModified string
}

func (d *Document) HasDate() bool {
	return d.Date != nil
}

func (d *Document) HasModified() bool {
	return d.Modified != nil
}

func (d *Document) IsStatic() bool {
	return d.Kind == KindStatic
}

// Timestamps holds what was computed for a document before any field
// assignment. Either value may be nil.
type Timestamps struct {
	Date     *time.Time
	Modified *time.Time
}

type Options struct {
	Follow        bool
	OnlyIfMissing bool
	Location      *time.Location
}
