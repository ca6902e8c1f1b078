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

import "fmt"

// MissingLocalFileError indicates that a hyperlink points to a local file
// which does not exist on disk.  The error is fatal: the conversion aborts
// and no output document is written.
type MissingLocalFileError struct {
	URI  string // the URI as it appears in the annotation
	Path string // the resolved file system path
	Err  error
}

func (e *MissingLocalFileError) Error() string {
	return fmt.Sprintf("local file %q (linked as %q) does not exist", e.Path, e.URI)
}

func (e *MissingLocalFileError) Unwrap() error {
	return e.Err
}

// DuplicateName describes a set of registered attachments from different
// directories which share a base name.  The attachments themselves are
// correct, but the attachment panel of some viewers only shows the first
// entry for each name.
type DuplicateName struct {
	Name  string
	Paths []string
}

func (d *DuplicateName) String() string {
	return fmt.Sprintf("%d attached files share the name %q", len(d.Paths), d.Name)
}
