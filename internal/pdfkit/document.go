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

package pdfkit

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"
)

// SaveOptions controls how the output document is written.
type SaveOptions struct {
	// Restrict encrypts the output with permissions which allow
	// extraction and printing but disallow modifying the document,
	// its annotations and form fields.  This discourages accidental
	// removal of the attachment annotations.
	Restrict bool

	// OwnerPassword is the owner password used when Restrict is set.
	OwnerPassword string
}

// A Document is one conversion session: an input PDF opened for reading
// and an output PDF being built from it.  Objects flow from input to
// output through a pdfcopy.Copier; pages are pre-redirected so that
// rewritten page dictionaries take the place of the originals when the
// rest of the document is copied.
//
// The output is staged in a temporary file next to the final path and
// only renamed into place by [Document.Finalize].  [Document.Close]
// releases the input and discards the staged output if Finalize did not
// complete, so a failed run leaves no artifact behind.
type Document struct {
	in  *pdf.Reader
	out *pdf.Writer
	cop *pdfcopy.Copier

	pages    []pdf.Reference // input page objects, in document order
	outPages []pdf.Reference // pre-allocated output refs for the pages

	fs       afero.Fs
	tmp      *os.File
	outPath  string
	saved    bool
	embedded int64
}

// Open opens inPath for reading and prepares the output session for
// outPath.  The caller must call Close on the returned document.
func Open(inPath, outPath string, opt *SaveOptions) (*Document, error) {
	r, err := pdf.Open(inPath, nil)
	if err != nil {
		return nil, err
	}

	pages, err := pagetree.FindPages(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	for _, ref := range pages {
		if ref == 0 {
			r.Close()
			return nil, errors.New("malformed page tree")
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".pdf-attach-*.tmp")
	if err != nil {
		r.Close()
		return nil, err
	}

	var wopt *pdf.WriterOptions
	if opt != nil && opt.Restrict {
		wopt = &pdf.WriterOptions{
			OwnerPassword:   opt.OwnerPassword,
			UserPermissions: pdf.PermCopy | pdf.PermPrint | pdf.PermPrintDegraded,
		}
	}
	w, err := pdf.NewWriter(noClose{tmp}, pdf.GetVersion(r), wopt)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		r.Close()
		return nil, err
	}

	doc := &Document{
		in:      r,
		out:     w,
		cop:     pdfcopy.NewCopier(w, r),
		pages:   pages,
		fs:      afero.NewOsFs(),
		tmp:     tmp,
		outPath: outPath,
	}

	// Redirect every page before anything is copied, so that references
	// to the original pages resolve to the rewritten ones.
	doc.outPages = make([]pdf.Reference, len(pages))
	for i, ref := range pages {
		doc.outPages[i] = w.Alloc()
		doc.cop.Redirect(ref, doc.outPages[i])
	}

	return doc, nil
}

// NumPages returns the number of pages of the input document.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Annotations returns the raw entries of a page's annotation array, in
// array order.
func (d *Document) Annotations(page int) ([]pdf.Object, error) {
	dict, err := pdf.GetDict(d.in, d.pages[page])
	if err != nil {
		return nil, err
	}
	annots, err := pdf.GetArray(d.in, dict["Annots"])
	if err != nil {
		return nil, err
	}
	if annots == nil {
		return nil, nil
	}
	res := make([]pdf.Object, len(annots))
	copy(res, annots)
	return res, nil
}

// ResolveDict resolves an annotation entry to its dictionary.  Entries
// which do not resolve to a dictionary yield nil.
func (d *Document) ResolveDict(entry pdf.Object) (pdf.Dict, error) {
	obj, err := pdf.Resolve(d.in, entry)
	if err != nil {
		return nil, err
	}
	dict, _ := obj.(pdf.Dict)
	return dict, nil
}

// LinkURI returns the URI of a link annotation's URI action, or "" if
// the annotation is not a link or has no URI action.
func (d *Document) LinkURI(annot pdf.Dict) (string, error) {
	subtype, err := optional(pdf.GetName(d.in, annot["Subtype"]))
	if err != nil {
		return "", err
	}
	if subtype != "Link" {
		return "", nil
	}

	action, err := optional(pdf.GetDict(d.in, annot["A"]))
	if err != nil || action == nil {
		return "", err
	}
	if s, err := optional(pdf.GetName(d.in, action["S"])); err != nil {
		return "", err
	} else if s != "URI" {
		return "", nil
	}

	uri, err := optional(pdf.GetString(d.in, action["URI"]))
	if err != nil {
		return "", err
	}
	return string(uri), nil
}

// Rect returns a copy of the annotation's rectangle, valid in the output
// document.
func (d *Document) Rect(annot pdf.Dict) (pdf.Object, error) {
	rect, err := pdf.GetArray(d.in, annot["Rect"])
	if err != nil {
		return nil, err
	}
	return d.cop.CopyArray(rect)
}

// KeepAnnotation carries an annotation entry over to the output document
// unchanged.
func (d *Document) KeepAnnotation(entry pdf.Object) (pdf.Object, error) {
	switch x := entry.(type) {
	case pdf.Reference:
		return d.cop.CopyReference(x)
	case pdf.Dict:
		return d.cop.CopyDict(x)
	case pdf.Array:
		return d.cop.CopyArray(x)
	default:
		return entry, nil
	}
}

// NewAnnotation writes an annotation dictionary to the output document
// as an indirect object.
func (d *Document) NewAnnotation(dict pdf.Dict) (pdf.Object, error) {
	ref := d.out.Alloc()
	if err := d.out.Put(ref, dict); err != nil {
		return nil, err
	}
	return ref, nil
}

// SetAnnotations writes the rewritten page dictionary for the given page
// to the output document, with annots as its annotation array.
func (d *Document) SetAnnotations(page int, annots []pdf.Object) error {
	orig, err := pdf.GetDict(d.in, d.pages[page])
	if err != nil {
		return err
	}

	src := pdf.Dict{}
	for key, val := range orig {
		if key != "Annots" {
			src[key] = val
		}
	}
	dict, err := d.cop.CopyDict(src)
	if err != nil {
		return err
	}
	if len(annots) > 0 {
		dict["Annots"] = pdf.Array(annots)
	}

	return d.out.Put(d.outPages[page], dict)
}

// Finalize copies the remaining document structure, applies the viewer
// settings and writes the output file.  It must only be called after
// every page has been rewritten.
//
// TODO: emit linearized ("fast web view") output once the writer
// supports it.
func (d *Document) Finalize() error {
	meta := d.in.GetMeta()

	catalog, err := pdfcopy.CopyStruct(d.cop, meta.Catalog)
	if err != nil {
		return err
	}
	// Default view when the file is opened.  Some viewers ignore this.
	catalog.PageLayout = "OneColumn"
	catalog.PageMode = "UseOutlines"

	outMeta := d.out.GetMeta()
	outMeta.Catalog = catalog
	if meta.Info != nil {
		info, err := pdfcopy.CopyStruct(d.cop, meta.Info)
		if err != nil {
			return err
		}
		outMeta.Info = info
	}
	outMeta.ID = meta.ID

	if err := d.out.Close(); err != nil {
		return err
	}
	if err := d.tmp.Sync(); err != nil {
		return err
	}
	if err := d.tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(d.tmp.Name(), d.outPath); err != nil {
		return err
	}
	d.saved = true
	return nil
}

// EmbeddedBytes returns the total uncompressed size of all files embedded
// so far.
func (d *Document) EmbeddedBytes() int64 {
	return d.embedded
}

// Close releases the input document.  If Finalize has not completed, the
// staged output is discarded.
func (d *Document) Close() error {
	var first error
	if d.in != nil {
		first = d.in.Close()
		d.in = nil
	}
	if !d.saved && d.tmp != nil {
		d.tmp.Close()
		if err := os.Remove(d.tmp.Name()); err != nil && first == nil {
			first = err
		}
	}
	d.tmp = nil
	return first
}

// optional discards malformed-file errors from the Get* helpers, so
// that an annotation entry which cannot be parsed reads as absent
// instead of aborting the run.
func optional[T pdf.Object](val T, err error) (T, error) {
	if err != nil {
		var zero T
		var malformed *pdf.MalformedFileError
		if errors.As(err, &malformed) {
			return zero, nil
		}
		return zero, err
	}
	return val, nil
}

// noClose keeps the pdf.Writer from closing the staged output file;
// the Document manages its lifetime.
type noClose struct {
	io.Writer
}
