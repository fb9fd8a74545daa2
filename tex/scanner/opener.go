// opener.go - locating input files
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package scanner

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Opener resolves the file names used by \input.  Open returns the
// file contents together with the name of the character set used by
// the file; an empty charset means UTF-8.
type Opener interface {
	Open(name string) (io.ReadCloser, string, error)
}

// DirOpener opens files relative to a base directory.  If a file
// cannot be found under its given name, the suffix ".tex" is tried.
type DirOpener struct {
	// BaseDir is the base directory for include files.  If BaseDir
	// is empty, it is set to the directory of the first file opened.
	BaseDir string

	// Charset is reported for every file opened.
	Charset string
}

// Open implements the Opener interface.
func (o *DirOpener) Open(name string) (io.ReadCloser, string, error) {
	fileName := name
	if o.BaseDir != "" && !filepath.IsAbs(fileName) {
		fileName = filepath.Join(o.BaseDir, fileName)
	}

	fd, err := os.Open(fileName)
	if os.IsNotExist(err) && !strings.HasSuffix(fileName, ".tex") {
		var e2 error
		fd, e2 = os.Open(fileName + ".tex")
		if e2 == nil {
			fileName += ".tex"
			err = nil
		}
	}
	if err != nil {
		return nil, "", err
	}

	if o.BaseDir == "" {
		tmp, err := filepath.Abs(fileName)
		if err != nil {
			fd.Close()
			return nil, "", err
		}
		o.BaseDir = filepath.Dir(tmp)
	}
	return fd, o.Charset, nil
}

// decode wraps r so that the input is converted from the given
// character set to UTF-8.
func decode(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
