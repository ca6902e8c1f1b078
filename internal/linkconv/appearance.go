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
	"sync"

	"seehuhn.de/go/pdf"
)

// A Builder creates the shared marker appearance in the output document.
// It is called at most once per conversion run.
type Builder func() (pdf.Reference, error)

// Appearance hands out the one appearance stream shared by all
// replacement annotations.  Default attachment icons are viewer-dependent;
// the shared stream makes the marker render the same everywhere, and
// sharing it keeps the number of extra objects constant no matter how
// many hyperlinks are converted.
type Appearance struct {
	build Builder

	mu  sync.Mutex
	ref pdf.Reference
}

// NewAppearance creates an appearance provider backed by build.
func NewAppearance(build Builder) *Appearance {
	return &Appearance{build: build}
}

// Handle returns the shared appearance stream, creating it on first use.
// All calls within a run return the same reference.
func (a *Appearance) Handle() (pdf.Reference, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ref != 0 {
		return a.ref, nil
	}
	ref, err := a.build()
	if err != nil {
		return 0, err
	}
	a.ref = ref
	return ref, nil
}
