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
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"seehuhn.de/go/pdf"
)

// fakeDoc is an in-memory stand-in for pdfkit.Document.  Annotation
// entries are direct dictionaries; replacements become references to
// dictionaries recorded in newAnnots.
type fakeDoc struct {
	pages [][]pdf.Object

	set       map[int][]pdf.Object
	newAnnots map[pdf.Reference]pdf.Dict
	embedded  []string
	finalized bool
	nextRef   uint32
}

func newFakeDoc(pages ...[]pdf.Object) *fakeDoc {
	return &fakeDoc{
		pages:     pages,
		set:       make(map[int][]pdf.Object),
		newAnnots: make(map[pdf.Reference]pdf.Dict),
	}
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) Annotations(page int) ([]pdf.Object, error) {
	return d.pages[page], nil
}

func (d *fakeDoc) ResolveDict(entry pdf.Object) (pdf.Dict, error) {
	dict, _ := entry.(pdf.Dict)
	return dict, nil
}

func (d *fakeDoc) LinkURI(annot pdf.Dict) (string, error) {
	if annot["Subtype"] != pdf.Name("Link") {
		return "", nil
	}
	action, _ := annot["A"].(pdf.Dict)
	if action == nil || action["S"] != pdf.Name("URI") {
		return "", nil
	}
	uri, _ := action["URI"].(pdf.String)
	return string(uri), nil
}

func (d *fakeDoc) Rect(annot pdf.Dict) (pdf.Object, error) {
	return annot["Rect"], nil
}

func (d *fakeDoc) KeepAnnotation(entry pdf.Object) (pdf.Object, error) {
	return entry, nil
}

func (d *fakeDoc) NewAnnotation(dict pdf.Dict) (pdf.Object, error) {
	d.nextRef++
	ref := pdf.NewReference(d.nextRef, 0)
	d.newAnnots[ref] = dict
	return ref, nil
}

func (d *fakeDoc) SetAnnotations(page int, annots []pdf.Object) error {
	d.set[page] = annots
	return nil
}

func (d *fakeDoc) Finalize() error {
	d.finalized = true
	return nil
}

func (d *fakeDoc) EmbedFile(path, description string) (pdf.Reference, error) {
	d.embedded = append(d.embedded, path)
	d.nextRef++
	return pdf.NewReference(d.nextRef, 0), nil
}

func link(uri string, rect pdf.Array) pdf.Dict {
	return pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Link"),
		"Rect":    rect,
		"A": pdf.Dict{
			"S":   pdf.Name("URI"),
			"URI": pdf.String(uri),
		},
	}
}

func newTestConverter(doc *fakeDoc, base string, fs afero.Fs) *Converter {
	return &Converter{
		Doc:      doc,
		Resolver: &Resolver{Base: base, Fs: fs},
		Registry: NewRegistry(doc),
		Appearance: NewAppearance(func() (pdf.Reference, error) {
			return pdf.NewReference(999, 0), nil
		}),
	}
}

func TestConvertReplacesLocalLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	base := filepath.FromSlash("/docs")
	if err := afero.WriteFile(fs, filepath.Join(base, "report.txt"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	rect := pdf.Array{pdf.Number(10), pdf.Number(20), pdf.Number(110), pdf.Number(40)}
	remote := link("https://example.com", pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(1), pdf.Number(1)})
	local := link("report.txt", rect)
	text := pdf.Dict{"Type": pdf.Name("Annot"), "Subtype": pdf.Name("Text")}

	doc := newFakeDoc([]pdf.Object{remote, local, text})
	conv := newTestConverter(doc, base, fs)

	if err := conv.Run(); err != nil {
		t.Fatal(err)
	}

	out := doc.set[0]
	if len(out) != 3 {
		t.Fatalf("annotation array length changed: %d", len(out))
	}
	if !cmp.Equal(pdf.Object(remote), out[0]) {
		t.Error("remote hyperlink was modified")
	}
	if !cmp.Equal(pdf.Object(text), out[2]) {
		t.Error("non-link annotation was modified")
	}

	ref, ok := out[1].(pdf.Reference)
	if !ok {
		t.Fatalf("local link not replaced, got %T", out[1])
	}
	repl := doc.newAnnots[ref]
	if repl["Subtype"] != pdf.Name("FileAttachment") {
		t.Errorf("Subtype = %v", repl["Subtype"])
	}
	if d := cmp.Diff(pdf.Object(rect), repl["Rect"]); d != "" {
		t.Errorf("rectangle changed (-want +got):\n%s", d)
	}
	if got, want := repl["Contents"], pdf.TextString("report.txt"); !cmp.Equal(want, got) {
		t.Errorf("Contents = %v", got)
	}
	for _, key := range []pdf.Name{"T", "M"} {
		if _, present := repl[key]; present {
			t.Errorf("replacement carries %q entry", key)
		}
	}
	if ap, _ := repl["AP"].(pdf.Dict); ap["N"] != pdf.NewReference(999, 0) {
		t.Errorf("AP/N = %v", repl["AP"])
	}

	if !doc.finalized {
		t.Error("document was not finalized")
	}
	if len(doc.embedded) != 1 {
		t.Errorf("embedded %d files, want 1", len(doc.embedded))
	}
}

func TestConvertSharesPayloadAndAppearance(t *testing.T) {
	fs := afero.NewMemMapFs()
	base := filepath.FromSlash("/docs")
	if err := afero.WriteFile(fs, filepath.Join(base, "report.txt"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	rect := pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(1), pdf.Number(1)}
	doc := newFakeDoc(
		[]pdf.Object{link("report.txt", rect)},
		[]pdf.Object{link("report.txt", rect), link("./report.txt", rect)},
	)

	builds := 0
	conv := newTestConverter(doc, base, fs)
	conv.Appearance = NewAppearance(func() (pdf.Reference, error) {
		builds++
		return pdf.NewReference(999, 0), nil
	})

	if err := conv.Run(); err != nil {
		t.Fatal(err)
	}

	if len(doc.embedded) != 1 {
		t.Fatalf("embedded %d payloads for one path, want 1", len(doc.embedded))
	}
	if builds != 1 {
		t.Errorf("appearance built %d times, want 1", builds)
	}

	var fs0 pdf.Object
	for _, repl := range doc.newAnnots {
		if fs0 == nil {
			fs0 = repl["FS"]
		} else if !cmp.Equal(fs0, repl["FS"]) {
			t.Error("replacements do not share one file spec")
		}
	}
}

func TestConvertMissingFileAborts(t *testing.T) {
	doc := newFakeDoc([]pdf.Object{
		link("./missing.txt", pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(1), pdf.Number(1)}),
	})
	conv := newTestConverter(doc, filepath.FromSlash("/docs"), afero.NewMemMapFs())

	err := conv.Run()
	var missing *MissingLocalFileError
	if !errors.As(err, &missing) {
		t.Fatalf("Run = %v, want MissingLocalFileError", err)
	}
	if doc.finalized {
		t.Error("document was finalized despite fatal error")
	}
	if _, ok := doc.set[0]; ok {
		t.Error("page was rewritten despite fatal error")
	}
}

func TestConvertSkipMissing(t *testing.T) {
	entry := link("./missing.txt", pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(1), pdf.Number(1)})
	doc := newFakeDoc([]pdf.Object{entry})
	conv := newTestConverter(doc, filepath.FromSlash("/docs"), afero.NewMemMapFs())
	conv.SkipMissing = true

	if err := conv.Run(); err != nil {
		t.Fatal(err)
	}
	if !doc.finalized {
		t.Error("document was not finalized")
	}
	if !cmp.Equal(pdf.Object(entry), doc.set[0][0]) {
		t.Error("unresolvable link was not kept unchanged")
	}
	if len(doc.embedded) != 0 {
		t.Errorf("embedded %d files, want 0", len(doc.embedded))
	}
}

func TestConvertProgress(t *testing.T) {
	fs := afero.NewMemMapFs()
	base := filepath.FromSlash("/docs")
	if err := afero.WriteFile(fs, filepath.Join(base, "report.txt"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	rect := pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(1), pdf.Number(1)}
	doc := newFakeDoc(
		[]pdf.Object{link("report.txt", rect)},
		nil,
	)

	type event struct {
		stage        Stage
		index, total int
	}
	var events []event
	conv := newTestConverter(doc, base, fs)
	conv.Progress = func(stage Stage, index, total int) {
		events = append(events, event{stage, index, total})
	}

	if err := conv.Run(); err != nil {
		t.Fatal(err)
	}

	want := []event{
		{StageAttach, 1, 1},
		{StagePage, 1, 2},
		{StagePage, 2, 2},
	}
	if d := cmp.Diff(want, events, cmp.AllowUnexported(event{})); d != "" {
		t.Errorf("progress events (-want +got):\n%s", d)
	}
}
