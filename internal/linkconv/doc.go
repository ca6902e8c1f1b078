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

// Package linkconv rewrites hyperlink annotations which point to local
// files into embedded file attachment annotations.
//
// Remote hyperlinks (http:, https:, ftp:, mailto:) are left untouched.
// Each distinct local file is embedded once, no matter how many
// hyperlinks reference it, and all replacement annotations share a single
// appearance stream.  Page annotation arrays keep their length and order;
// only the accepted slots are substituted.
package linkconv
