package source

import (
	"strconv"
	"testing"
)

func TestSourceLineCol(t *testing.T) {
	// two reassembled ERM logical lines, plus an unpaired multi-byte rune
	// case to exercise LineCol's claim that columns count runes, not bytes.
	cases := []struct {
		name string
		text string
		pos  int
		line int
		col  int
	}{
		{"empty at start", "", 0, 1, 1},
		{"empty clamps past end", "", 50, 1, 1},
		{"negative offset clamps to start", "abc", -5, 1, 1},
		{"bare newline at start", "\n", 0, 1, 1},
		{"bare newline past it", "\n", 1, 2, 1},
		{"bare newline clamps", "\n", 99, 2, 1},
		{"two lines, start of first", "!?MA;\n!?MB;\n", 0, 1, 1},
		{"two lines, mid first", "!?MA;\n!?MB;\n", 3, 1, 4},
		{"two lines, start of second", "!?MA;\n!?MB;\n", 6, 2, 1},
		{"two lines, mid second", "!?MA;\n!?MB;\n", 9, 2, 4},
		{"two lines, trailing newline", "!?MA;\n!?MB;\n", 12, 3, 1},
		{"multibyte rune counts as one column", "héllo\n", 3, 1, 3},
		{"multibyte rune, one past it", "héllo\n", 4, 1, 4},
	}

	for _, c := range cases {
		src := New("", []byte(c.text))
		line, col := src.LineCol(c.pos)
		if line != c.line || col != c.col {
			t.Errorf("%s: LineCol(%d) on %q = (%d, %d), want (%d, %d)",
				c.name, c.pos, c.text, line, col, c.line, c.col)
		}
	}
}

func TestSourcePos(t *testing.T) {
	// the inverse of TestSourceLineCol's "two lines" cases, plus the
	// degenerate line<=0/col<=0/line-past-end clamping rules.
	const text = "!?MA;\n!?MB;\n"

	cases := []struct {
		name string
		line int
		col  int
		pos  int
	}{
		{"line zero clamps to zero", 0, 1, 0},
		{"col zero clamps to zero", 1, 0, 0},
		{"start of first line", 1, 1, 0},
		{"mid first line", 1, 5, 4},
		{"start of second line", 2, 1, 6},
		{"mid second line", 2, 5, 10},
		{"start of third (trailing) line", 3, 1, 12},
		{"col past end of content clamps", 3, 2, 12},
		{"line past end of content clamps", 4, 1, 12},
	}

	src := New("", []byte(text))
	for _, c := range cases {
		pos := src.Pos(c.line, c.col)
		if pos != c.pos {
			t.Errorf("%s: Pos(%d, %d) = %d, want %d", c.name, c.line, c.col, pos, c.pos)
		}
	}
}

func assertEq(t *testing.T, got, want int, what string) {
	if got != want {
		t.Fatalf("%s: expected %d, got %d", what, want, got)
	}
}

func TestCursorSkip(t *testing.T) {
	c := NewCursor(New("bar", []byte("bar")))
	c.Skip(2)
	content, pos := c.Content()
	assertEq(t, pos, 2, "pos after skip")
	if string(content) != "bar" {
		t.Fatalf("expecting bar, got %s", content)
	}
	if string(c.Rest()) != "r" {
		t.Fatalf("expecting rest %q, got %q", "r", c.Rest())
	}
}

func TestCursorSeekClampsToContent(t *testing.T) {
	c := NewCursor(New("foo", []byte("foo")))
	c.Seek(10)
	assertEq(t, c.Pos(), 3, "pos after over-seek")
	if !c.AtEnd() {
		t.Fatal("expecting AtEnd after over-seek")
	}

	c.Seek(1)
	assertEq(t, c.Pos(), 1, "pos after seek back")
	if c.AtEnd() {
		t.Fatal("expecting not AtEnd after seeking back")
	}
}

func TestCursorSeekIsBacktrackable(t *testing.T) {
	c := NewCursor(New("", []byte("abcdef")))
	c.Skip(3)
	saved := c.Pos()
	c.Skip(3)
	if !c.AtEnd() {
		t.Fatal("expecting AtEnd")
	}
	c.Seek(saved)
	if string(c.Rest()) != "def" {
		t.Fatalf("expecting rest %q after backtrack, got %q", "def", c.Rest())
	}
}

func TestSourcePosImplementsSourcePos(t *testing.T) {
	src := New("file.erm", []byte("one\ntwo"))
	c := NewCursor(src)
	c.Skip(5)
	p := c.SourcePos()
	if p.SourceName() != "file.erm" {
		t.Fatalf("expecting name file.erm, got %q", p.SourceName())
	}
	if p.Line() != 2 || p.Col() != 2 {
		t.Fatalf("expecting line 2 col 2, got line %d col %d (pos %s)", p.Line(), p.Col(), strconv.Itoa(p.Pos()))
	}
}
