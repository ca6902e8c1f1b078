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
	"sync"

	log "github.com/sirupsen/logrus"
	"seehuhn.de/go/pdf"
)

// An Embedder attaches a local file to the output document and returns a
// reference to the resulting file specification.
type Embedder interface {
	EmbedFile(path, description string) (pdf.Reference, error)
}

// A Registry hands out file specifications for local files, creating the
// embedded payload for each distinct path at most once.  Many annotations
// may reference the same path; they all share one payload.
//
// The Registry is scoped to a single conversion run and is injected into
// the [Converter] rather than held in package state.
type Registry struct {
	embed Embedder

	mu    sync.Mutex
	specs map[string]pdf.Reference
	order []string
}

// NewRegistry creates an empty registry which uses e to embed files.
func NewRegistry(e Embedder) *Registry {
	return &Registry{
		embed: e,
		specs: make(map[string]pdf.Reference),
	}
}

// GetOrCreate returns the file specification for the given resolved path,
// embedding the file on first use.  The description of the specification
// is the file's base name.
func (reg *Registry) GetOrCreate(path string) (pdf.Reference, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if ref, ok := reg.specs[path]; ok {
		return ref, nil
	}

	ref, err := reg.embed.EmbedFile(path, filepath.Base(path))
	if err != nil {
		return 0, err
	}
	log.WithField("path", path).Debug("embedded local file")

	reg.specs[path] = ref
	reg.order = append(reg.order, path)
	return ref, nil
}

// Len returns the number of distinct files registered so far.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.order)
}

// DuplicateNames reports groups of registered paths which share a base
// name.  This is informational: the output document is correct either
// way, but the attachment panel of some viewers only displays the first
// file of each name.
func (reg *Registry) DuplicateNames() []DuplicateName {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	byName := make(map[string][]string)
	var names []string
	for _, path := range reg.order {
		name := filepath.Base(path)
		if len(byName[name]) == 0 {
			names = append(names, name)
		}
		byName[name] = append(byName[name], path)
	}

	var res []DuplicateName
	for _, name := range names {
		if paths := byName[name]; len(paths) > 1 {
			res = append(res, DuplicateName{Name: name, Paths: paths})
		}
	}
	return res
}
