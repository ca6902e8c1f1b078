// pdf-attach - embed local hyperlink targets in PDF files as attachments
// Copyright (C) 2026  The pdf-attach authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package linkconv

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"seehuhn.de/go/pdf"
)

// Document is the slice of the PDF toolkit the converter drives.
// It is implemented by pdfkit.Document.
type Document interface {
	// NumPages returns the number of pages of the input document.
	NumPages() int

	// Annotations returns the raw entries of a page's annotation array,
	// in array order.  Pages without annotations yield a nil slice.
	Annotations(page int) ([]pdf.Object, error)

	// ResolveDict resolves an annotation entry to its dictionary.
	// Entries which are not dictionaries resolve to nil.
	ResolveDict(entry pdf.Object) (pdf.Dict, error)

	// LinkURI returns the URI of a link annotation's URI action, or ""
	// if the annotation is not a link or has no URI action.
	LinkURI(annot pdf.Dict) (string, error)

	// Rect returns a copy of the annotation's rectangle, valid in the
	// output document.
	Rect(annot pdf.Dict) (pdf.Object, error)

	// KeepAnnotation carries an annotation entry over to the output
	// document unchanged.
	KeepAnnotation(entry pdf.Object) (pdf.Object, error)

	// NewAnnotation writes a freshly built annotation dictionary to the
	// output document and returns an entry for the annotation array.
	NewAnnotation(dict pdf.Dict) (pdf.Object, error)

	// SetAnnotations installs a page's rewritten annotation array in the
	// output document.  The array must have the same length and order as
	// the input array.
	SetAnnotations(page int, annots []pdf.Object) error

	// Finalize applies the document-level viewer settings and writes the
	// output file.  It must only be called after every page has been
	// rewritten successfully.
	Finalize() error
}

// Stage identifies the kind of work a progress signal reports.
type Stage int

const (
	// StagePage is emitted after a page has been processed; the index
	// counts pages, the total is the page count of the document.
	StagePage Stage = iota

	// StageAttach is emitted after an annotation has been replaced; the
	// index counts annotations on the current page, the total is the
	// length of the page's annotation array.
	StageAttach
)

// Progress receives a signal after each unit of work.  It is
// observational only and must not influence the conversion.
type Progress func(stage Stage, index, total int)

// A Converter rewrites the hyperlink annotations of one document.
//
// Per annotation it runs a small state machine: annotations which are not
// hyperlinks, carry no URI, or point to a remote target are skipped; a
// local target which cannot be resolved aborts the run (or is skipped in
// lenient mode); everything else is replaced in place by a file
// attachment annotation.
type Converter struct {
	Doc        Document
	Resolver   *Resolver
	Registry   *Registry
	Appearance *Appearance

	// Progress, if non-nil, is called after each page and after each
	// replaced annotation.
	Progress Progress

	// SkipMissing downgrades unresolvable local targets from a fatal
	// error to a logged skip.
	SkipMissing bool
}

// Run converts all pages of the document in order and finalizes the
// output.  On error no output file is produced.
func (c *Converter) Run() error {
	numPages := c.Doc.NumPages()
	for pageNo := range numPages {
		if err := c.convertPage(pageNo); err != nil {
			return err
		}
		c.signal(StagePage, pageNo+1, numPages)
	}

	for _, dup := range c.Registry.DuplicateNames() {
		log.WithFields(log.Fields{
			"name":  dup.Name,
			"paths": dup.Paths,
		}).Warn("attached files share a base name; some viewers list only the first")
	}

	return c.Doc.Finalize()
}

// convertPage rewrites one page's annotation array.  Accepted slots are
// substituted by value; length and order of the array never change.
func (c *Converter) convertPage(pageNo int) error {
	entries, err := c.Doc.Annotations(pageNo)
	if err != nil {
		return err
	}

	out := make([]pdf.Object, len(entries))
	for i, entry := range entries {
		repl, err := c.convertAnnotation(entry)
		if err != nil {
			return err
		}
		if repl == nil {
			out[i], err = c.Doc.KeepAnnotation(entry)
			if err != nil {
				return err
			}
			continue
		}
		out[i] = repl
		c.signal(StageAttach, i+1, len(entries))
	}

	return c.Doc.SetAnnotations(pageNo, out)
}

// convertAnnotation returns the replacement entry for an annotation, or
// nil if the annotation is to be kept as it is.
func (c *Converter) convertAnnotation(entry pdf.Object) (pdf.Object, error) {
	dict, err := c.Doc.ResolveDict(entry)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}

	uri, err := c.Doc.LinkURI(dict)
	if err != nil {
		return nil, err
	}

	switch Classify(uri) {
	case TargetNone, TargetRemote:
		return nil, nil
	}

	path, err := c.Resolver.Locate(uri)
	if err != nil {
		if c.SkipMissing {
			log.WithField("uri", uri).Warn("skipping hyperlink, local file not found")
			return nil, nil
		}
		return nil, err
	}

	fileSpec, err := c.Registry.GetOrCreate(path)
	if err != nil {
		return nil, err
	}
	appearance, err := c.Appearance.Handle()
	if err != nil {
		return nil, err
	}
	rect, err := c.Doc.Rect(dict)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"uri": uri, "path": path}).Debug("attaching local file")

	return c.Doc.NewAnnotation(FileAttachmentDict(rect, fileSpec, appearance, filepath.Base(path)))
}

func (c *Converter) signal(stage Stage, index, total int) {
	if c.Progress != nil {
		c.Progress(stage, index, total)
	}
}

// FileAttachmentDict builds the replacement annotation for a converted
// hyperlink.  The rectangle is the source hyperlink's rectangle; no
// author or modification date is recorded.
func FileAttachmentDict(rect pdf.Object, fileSpec, appearance pdf.Reference, desc string) pdf.Dict {
	dict := pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("FileAttachment"),
		"Rect":    rect,
		"FS":      fileSpec,

		// Contents doubles as the attachment description shown by
		// viewers.
		"Contents": pdf.TextString(desc),

		// A name outside the four standard icons, so that viewers use
		// the appearance stream instead of drawing a pushpin over the
		// linked text.
		"Name": pdf.Name("None"),

		"C": pdf.Array{pdf.Number(1), pdf.Number(1), pdf.Number(0)},
	}
	if appearance != 0 {
		dict["AP"] = pdf.Dict{"N": appearance}
	}
	return dict
}
