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
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"
)

// The shared marker: a semi-transparent yellow square.  The form's BBox
// is the unit square; viewers map it onto each annotation's own Rect, so
// one stream serves every rectangle size.
const markerAlpha = 0.2

// NewMarkerAppearance writes the shared marker appearance stream to the
// output document.
func (d *Document) NewMarkerAppearance() (pdf.Reference, error) {
	ref := d.out.Alloc()
	dict := pdf.Dict{
		"Type":     pdf.Name("XObject"),
		"Subtype":  pdf.Name("Form"),
		"FormType": pdf.Integer(1),
		"BBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0), pdf.Integer(1), pdf.Integer(1),
		},
		"Group": pdf.Dict{
			"S": pdf.Name("Transparency"),
		},
		"Resources": pdf.Dict{
			"ExtGState": pdf.Dict{
				"GS0": pdf.Dict{
					"Type": pdf.Name("ExtGState"),
					"CA":   pdf.Number(markerAlpha),
					"ca":   pdf.Number(markerAlpha),
				},
			},
		},
	}

	stm, err := d.out.OpenStream(ref, dict, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	_, err = fmt.Fprint(stm, "/GS0 gs\n1 1 0 rg\n0 0 1 1 re\nf\n")
	if err != nil {
		return 0, err
	}
	if err := stm.Close(); err != nil {
		return 0, err
	}
	return ref, nil
}

// ImportAppearance copies a ready-made appearance stream from another PDF
// file into the output document.  The template's first annotation with a
// normal appearance provides the stream.
func (d *Document) ImportAppearance(templatePath string) (pdf.Reference, error) {
	src, err := pdf.Open(templatePath, nil)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	pages, err := pagetree.FindPages(src)
	if err != nil {
		return 0, err
	}

	imp := pdfcopy.NewCopier(d.out, src)
	for _, pageRef := range pages {
		page, err := pdf.GetDict(src, pageRef)
		if err != nil {
			return 0, err
		}
		annots, err := pdf.GetArray(src, page["Annots"])
		if err != nil {
			return 0, err
		}
		for _, entry := range annots {
			annot, err := optional(pdf.GetDict(src, entry))
			if err != nil || annot == nil {
				continue
			}
			ap, err := optional(pdf.GetDict(src, annot["AP"]))
			if err != nil || ap == nil {
				continue
			}
			if ref, ok := ap["N"].(pdf.Reference); ok {
				return imp.CopyReference(ref)
			}
		}
	}

	return 0, fmt.Errorf("%s: no appearance stream found", templatePath)
}
