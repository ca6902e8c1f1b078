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

// Package pdfkit adapts seehuhn.de/go/pdf for the annotation rewriter.
//
// A conversion session reads the input document and builds the output
// document through a pdfcopy.Copier.  Page objects are redirected up
// front, so the rewritten page dictionaries replace the originals when
// the document structure is copied; everything else is carried over
// unchanged.  The package also provides the toolkit capabilities the
// rewriter consumes: embedding local files as file specifications,
// synthesizing the shared marker appearance, and importing a pre-built
// appearance from another document.
package pdfkit
