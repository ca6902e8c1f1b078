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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uilive"
	"golang.org/x/term"

	"github.com/pdfarc/pdf-attach/internal/linkconv"
)

// progressPrinter prints the "Page <i>/<n>" and "Attaching <i>/<n>"
// progress lines.  On a terminal the current line is updated in place;
// otherwise one line per unit of work is written, which is the format
// external progress-bar wrappers consume.
type progressPrinter struct {
	w    io.Writer
	live *uilive.Writer
}

func newProgress(out *os.File) *progressPrinter {
	if !term.IsTerminal(int(out.Fd())) {
		return &progressPrinter{w: out}
	}
	live := uilive.New()
	live.Out = out
	live.Start()
	return &progressPrinter{w: live, live: live}
}

// Update implements linkconv.Progress.
func (p *progressPrinter) Update(stage linkconv.Stage, index, total int) {
	switch stage {
	case linkconv.StagePage:
		fmt.Fprintf(p.w, "Page %d/%d\n", index, total)
	case linkconv.StageAttach:
		fmt.Fprintf(p.w, "Attaching %d/%d\n", index, total)
	}
}

// Stop flushes and releases the live writer.  It is safe to call twice.
func (p *progressPrinter) Stop() {
	if p.live != nil {
		p.live.Stop()
		p.w = io.Discard
		p.live = nil
	}
}
