// Package reader implements the ERM Source Reader: it validates the
// mandatory "ZVSE" header and iterates a script file's physical lines,
// enforcing a maximum line length. See original_source/lib/ERMParser.cpp's
// parseFile for the C++ equivalent this is ported from (header check via
// file.getline, then a getline loop with a fixed 1024-byte buffer).
package reader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ava12/erm"
)

// DefaultMaxLineLength is the recommended maximum physical-line length,
// including the line terminator, per spec.md §4.1.
const DefaultMaxLineLength = 1024

const headerText = "ZVSE"

// PhysicalLine is one physical line read from the file, numbered starting
// at 1 for the header line itself, so the first content line is line 2.
type PhysicalLine struct {
	Number  int
	Text    string
	TooLong bool
}

// Reader reads physical lines from an opened ERM script file.
type Reader struct {
	file       *os.File
	br         *bufio.Reader
	path       string
	maxLineLen int
	lineNum    int
}

// Open opens path for reading. It reports erm.FormatError(erm.ReaderErrors, ...)
// with the exact stable message spec.md requires on failure.
func Open(path string, maxLineLen int) (*Reader, error) {
	if maxLineLen <= 0 {
		maxLineLen = DefaultMaxLineLength
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, erm.FormatError(erm.ReaderErrors, "File %s not found or unable to open", path).WithCause(err)
	}
	return &Reader{
		file:       f,
		br:         bufio.NewReaderSize(f, maxLineLen),
		path:       path,
		maxLineLen: maxLineLen,
	}, nil
}

// Close releases the underlying file handle. Safe to call multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// CheckHeader reads physical line 1 and verifies it is exactly "ZVSE".
// It reports erm.FormatError(erm.ReaderErrors, ...) with the exact stable
// message spec.md requires on mismatch.
func (r *Reader) CheckHeader() error {
	line, _, err := r.readPhysicalLine()
	if err != nil {
		return erm.FormatError(erm.ReaderErrors, "File %s has wrong header", r.path)
	}
	r.lineNum = 1
	if line != headerText {
		return erm.FormatError(erm.ReaderErrors, "File %s has wrong header", r.path)
	}
	return nil
}

// Next returns the next physical line, or ok == false once the file is
// exhausted. A read that fills the buffer without reaching end-of-line sets
// TooLong and hands the truncated content forward, per spec.md §4.1.
func (r *Reader) Next() (PhysicalLine, bool, error) {
	line, tooLong, err := r.readPhysicalLine()
	if err == io.EOF {
		return PhysicalLine{}, false, nil
	}
	if err != nil {
		return PhysicalLine{}, false, err
	}
	r.lineNum++
	return PhysicalLine{Number: r.lineNum, Text: line, TooLong: tooLong}, true, nil
}

// readPhysicalLine reads bytes up to the next '\n' (or EOF), trims a
// trailing '\r', and truncates content past maxLineLen-1 bytes (reserving
// one byte of budget for the terminator itself), reporting the overflow via
// the tooLong return value. Unlike the original istream::getline, once the
// budget is exceeded the remainder of the physical line is discarded rather
// than replayed as a bogus subsequent line; see DESIGN.md.
func (r *Reader) readPhysicalLine() (line string, tooLong bool, err error) {
	var buf []byte
	sawByte := false
	for {
		b, e := r.br.ReadByte()
		if e != nil {
			if e == io.EOF {
				if !sawByte {
					return "", false, io.EOF
				}
				break
			}
			return "", false, e
		}
		sawByte = true
		if b == '\n' {
			break
		}
		if len(buf) < r.maxLineLen-1 {
			buf = append(buf, b)
		} else {
			tooLong = true
		}
	}

	return strings.TrimSuffix(string(buf), "\r"), tooLong, nil
}
