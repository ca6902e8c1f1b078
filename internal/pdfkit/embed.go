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
	"crypto/md5"

	"github.com/spf13/afero"

	"seehuhn.de/go/pdf"
)

// EmbedFile attaches the file at path to the output document and returns
// a reference to the resulting file specification dictionary.  The file
// bytes are stored once, as a compressed embedded file stream.
func (d *Document) EmbedFile(path, description string) (pdf.Reference, error) {
	data, err := afero.ReadFile(d.fs, path)
	if err != nil {
		return 0, err
	}

	params := pdf.Dict{
		"Size": pdf.Integer(len(data)),
	}
	if fi, err := d.fs.Stat(path); err == nil && !fi.ModTime().IsZero() {
		params["ModDate"] = pdf.Date(fi.ModTime())
	}
	sum := md5.Sum(data)
	params["CheckSum"] = pdf.String(sum[:])

	streamRef := d.out.Alloc()
	stm, err := d.out.OpenStream(streamRef, pdf.Dict{
		"Type":   pdf.Name("EmbeddedFile"),
		"Params": params,
	}, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	if _, err := stm.Write(data); err != nil {
		return 0, err
	}
	if err := stm.Close(); err != nil {
		return 0, err
	}

	specRef := d.out.Alloc()
	spec := pdf.Dict{
		"Type": pdf.Name("Filespec"),
		"F":    pdf.TextString(description),
		"UF":   pdf.TextString(description),
		"Desc": pdf.TextString(description),
		"EF": pdf.Dict{
			"F":  streamRef,
			"UF": streamRef,
		},
	}
	if err := d.out.Put(specRef, spec); err != nil {
		return 0, err
	}

	d.embedded += int64(len(data))
	return specRef, nil
}
