package grammar

import "github.com/ava12/erm/source"

// parser holds the mutable state of a single logical-line parse attempt: a
// backtrackable cursor over the line's text and the deepest failure seen so
// far. It is not reused across lines.
type parser struct {
	cur      *source.Cursor
	text     string
	failure  *failure
	hardFail bool
}

func newParser(text string) *parser {
	src := source.New("", []byte(text))
	return &parser{cur: source.NewCursor(src), text: text}
}

func (p *parser) pos() int {
	return p.cur.Pos()
}

func (p *parser) seek(pos int) {
	p.cur.Seek(pos)
}

func (p *parser) skip(n int) {
	p.cur.Skip(n)
}

func (p *parser) peek() (byte, bool) {
	rest := p.cur.Rest()
	if len(rest) == 0 {
		return 0, false
	}
	return rest[0], true
}

func (p *parser) advance() byte {
	b, _ := p.peek()
	p.cur.Skip(1)
	return b
}

// skipSpaces consumes zero or more literal space characters. The grammar
// otherwise has no skip-parser at all (original_source/lib/ERMParser.cpp
// never wraps its rules in phrase_parse/qi::space), but spec.md's own worked
// examples put incidental whitespace directly before a trigger's or post OB
// trigger's terminating ';' (e.g. "!?GM0 $foo$ ;"), so those two productions
// alone tolerate it; see DESIGN.md.
func (p *parser) skipSpaces() {
	for {
		b, ok := p.peek()
		if !ok || b != ' ' {
			return
		}
		p.advance()
	}
}

func (p *parser) hasPrefix(s string) bool {
	rest := p.cur.Rest()
	if len(rest) < len(s) {
		return false
	}
	return string(rest[:len(s)]) == s
}

// textRange returns the slice of the original line text between two byte
// offsets previously returned by pos().
func (p *parser) textRange(from, to int) string {
	return p.text[from:to]
}
