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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"seehuhn.de/go/pdf"

	"github.com/pdfarc/pdf-attach/internal/linkconv"
	"github.com/pdfarc/pdf-attach/internal/pdfkit"
)

type convertFlags struct {
	overwrite     bool
	skipMissing   bool
	restrict      bool
	ownerPassword string
	template      string
}

func convertCmd() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <infile> <outfile>",
		Short: "Convert local-file hyperlinks into embedded attachments",
		Long: `Convert rewrites every hyperlink annotation of <infile> which points
to a local file into a file attachment annotation, embedding the target
file, and writes the result to <outfile>.  Remote hyperlinks (http:,
https:, ftp:, mailto:) are left untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false,
		"overwrite the output file if it already exists")
	cmd.Flags().BoolVar(&flags.skipMissing, "skip-missing", false,
		"skip hyperlinks whose target file is missing instead of aborting")
	cmd.Flags().BoolVar(&flags.restrict, "restrict", false,
		"restrict output permissions to extraction and printing")
	cmd.Flags().StringVar(&flags.ownerPassword, "owner-password", "",
		"owner password for --restrict")
	cmd.Flags().StringVar(&flags.template, "appearance-template", "",
		"PDF file to copy the marker appearance from instead of synthesizing it")

	return cmd
}

// validateArgs checks the CLI invocation before any document is opened.
func validateArgs(in, out string, overwrite bool) error {
	if !strings.EqualFold(filepath.Ext(in), ".pdf") ||
		!strings.EqualFold(filepath.Ext(out), ".pdf") {
		return errors.New("input and output files must be PDF files")
	}

	inInfo, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("input file %q does not exist", in)
	}

	if outInfo, err := os.Stat(out); err == nil {
		if os.SameFile(inInfo, outInfo) {
			return errors.New("input and output files must not be the same")
		}
		if !overwrite {
			return fmt.Errorf("output file %q already exists (use --overwrite)", out)
		}
	}

	return nil
}

func runConvert(in, out string, flags *convertFlags) error {
	if err := validateArgs(in, out, flags.overwrite); err != nil {
		return err
	}

	log.WithField("file", in).Info("opening input")

	doc, err := pdfkit.Open(in, out, &pdfkit.SaveOptions{
		Restrict:      flags.restrict,
		OwnerPassword: flags.ownerPassword,
	})
	if err != nil {
		return err
	}
	defer doc.Close()

	appearance := doc.NewMarkerAppearance
	if flags.template != "" {
		appearance = func() (pdf.Reference, error) {
			return doc.ImportAppearance(flags.template)
		}
	}

	// the resolver's base must be absolute so that resolved paths are
	// canonical deduplication keys
	base, err := filepath.Abs(filepath.Dir(in))
	if err != nil {
		return err
	}

	progress := newProgress(os.Stdout)
	defer progress.Stop()

	registry := linkconv.NewRegistry(doc)
	conv := &linkconv.Converter{
		Doc:         doc,
		Resolver:    &linkconv.Resolver{Base: base},
		Registry:    registry,
		Appearance:  linkconv.NewAppearance(appearance),
		Progress:    progress.Update,
		SkipMissing: flags.skipMissing,
	}
	if err := conv.Run(); err != nil {
		return err
	}
	progress.Stop()

	log.WithFields(log.Fields{
		"file":  out,
		"files": registry.Len(),
		"bytes": humanize.Bytes(uint64(doc.EmbeddedBytes())),
	}).Info("output written")

	return nil
}
