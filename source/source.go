// Package source holds a script file's content and gives byte offsets inside
// it a line/col identity, plus a small seekable Cursor used by the grammar
// package to backtrack while resolving local ambiguities.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// Source is the byte content of one script file (or, for the grammar
// package, one already-reassembled logical line) together with the byte
// offsets of every line start, so that any byte offset can be turned into a
// 1-based line/col pair.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New builds a Source over content, indexing line starts eagerly by
// repeatedly scanning ahead for '\n' rather than walking the content one
// byte at a time.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, lineStarts: []int{0}}
	for offset := 0; ; {
		idx := bytes.IndexByte(content[offset:], '\n')
		if idx < 0 {
			break
		}
		offset += idx + 1
		s.lineStarts = append(s.lineStarts, offset)
	}
	return s
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts a byte offset into a 1-based line/col pair. Columns count
// runes, not bytes, so multi-byte UTF-8 sequences count as one column.
func (s *Source) LineCol(pos int) (line, col int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(s.content):
		pos = len(s.content)
	}

	lineIndex := s.findLineIndex(pos)
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos converts a 1-based line/col pair back into a byte offset, clamped to
// the content bounds.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// findLineIndex returns the index of the line containing pos: the largest
// index whose lineStarts entry does not exceed pos.
func (s *Source) findLineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos is a fixed point in a Source, implementing erm.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

// Cursor is a seekable position over a single Source. Unlike a stream, it
// supports Seek back to an earlier offset, which is how the grammar package
// backtracks when a production's first attempt does not pan out (iexp vs
// arith_op, and an optional integer or macro that turns out not to be there).
type Cursor struct {
	source *Source
	pos    int
}

// NewCursor creates a Cursor positioned at the start of s.
func NewCursor(s *Source) *Cursor {
	return &Cursor{source: s}
}

func (c *Cursor) Source() *Source {
	return c.source
}

func (c *Cursor) Pos() int {
	return c.pos
}

// SourcePos returns the current position as an erm.SourcePos.
func (c *Cursor) SourcePos() Pos {
	res := Pos{src: c.source}
	if c.source != nil {
		res.pos = c.pos
		res.line, res.col = c.source.LineCol(c.pos)
	}
	return res
}

// Content returns the underlying content and the current offset into it.
func (c *Cursor) Content() ([]byte, int) {
	if c.source == nil {
		return []byte{}, 0
	}
	return c.source.Content(), c.pos
}

// Rest returns the unconsumed tail of the content.
func (c *Cursor) Rest() []byte {
	content, pos := c.Content()
	return content[pos:]
}

func (c *Cursor) AtEnd() bool {
	return c.source == nil || c.pos >= c.source.Len()
}

// Skip advances the cursor by size bytes, clamped to the content length.
func (c *Cursor) Skip(size int) {
	if size <= 0 || c.source == nil {
		return
	}
	c.pos += size
	if c.pos > c.source.Len() {
		c.pos = c.source.Len()
	}
}

// Seek moves the cursor to an absolute byte offset, clamped to the content
// bounds. This is the primitive backtracking relies on.
func (c *Cursor) Seek(pos int) {
	if c.source == nil {
		return
	}
	if pos <= 0 {
		c.pos = 0
	} else if size := c.source.Len(); pos > size {
		c.pos = size
	} else {
		c.pos = pos
	}
}

func (c *Cursor) LineCol(pos int) (line, col int) {
	if c.source == nil {
		return 0, 0
	}
	return c.source.LineCol(pos)
}
