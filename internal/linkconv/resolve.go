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
	"strings"

	"github.com/spf13/afero"
)

// Target is the classification of a hyperlink URI.
type Target int

const (
	// TargetNone marks annotations which carry no URI at all.
	TargetNone Target = iota

	// TargetRemote marks URIs with a remote scheme.  They are left
	// untouched by the conversion.
	TargetRemote

	// TargetLocal marks URIs naming a file on the local file system.
	TargetLocal
)

// remoteSchemes are the URI prefixes which identify remote targets.
// Matching is case-insensitive; a scheme may appear with or without
// the "//" authority part.
var remoteSchemes = []string{"http:", "https:", "ftp:", "mailto:"}

const fileScheme = "file://"

// Classify decides the fate of a hyperlink URI.
func Classify(uri string) Target {
	if uri == "" {
		return TargetNone
	}
	lower := strings.ToLower(uri)
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return TargetRemote
		}
	}
	return TargetLocal
}

// A Resolver turns local hyperlink URIs into file system paths.
type Resolver struct {
	// Base is the directory of the input document.  Relative URIs are
	// interpreted relative to this directory.  Resolved paths double as
	// the deduplication key, so callers pass an absolute directory.
	Base string

	// Fs is the file system used for existence checks.
	// A nil value means the operating system's file system.
	Fs afero.Fs
}

// Resolve maps a local URI to a cleaned file system path without
// touching the file system.  URIs starting with "file://" are taken as
// absolute paths; a leading slash in front of a drive letter
// ("file:///C:/...") is dropped, and the extra slash of UNC forms
// ("file:////server/share") is preserved.  All other URIs are joined
// with the base directory.
func (r *Resolver) Resolve(uri string) string {
	if strings.HasPrefix(uri, fileScheme) {
		path := strings.TrimPrefix(uri, fileScheme)
		if len(path) >= 3 && path[0] == '/' && isDriveLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
		clean := filepath.Clean(filepath.FromSlash(path))
		if strings.HasPrefix(path, "//") && !strings.HasPrefix(clean, "//") {
			clean = "/" + clean
		}
		return clean
	}
	return filepath.Join(r.Base, filepath.FromSlash(uri))
}

// Locate resolves a local URI and verifies that the target exists.
// A missing target yields a *MissingLocalFileError.
func (r *Resolver) Locate(uri string) (string, error) {
	path := r.Resolve(uri)
	if _, err := r.fs().Stat(path); err != nil {
		return "", &MissingLocalFileError{URI: uri, Path: path, Err: err}
	}
	return path, nil
}

func (r *Resolver) fs() afero.Fs {
	if r.Fs != nil {
		return r.Fs
	}
	return afero.NewOsFs()
}

func isDriveLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
