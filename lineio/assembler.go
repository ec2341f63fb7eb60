package lineio

// LogicalLine is one reassembled logical line together with the physical
// line number on which it began.
type LogicalLine struct {
	StartLine int
	Text      string
}

// state is the assembler's two-state machine (Outside / InsideString).
type state int

const (
	outside state = iota
	insideString
)

// Assembler concatenates physical lines into logical lines around
// multi-line '^...^' string literals, per the table in spec.md §4.3. It is
// the only piece of state that persists across lines for the duration of
// parsing one file; a zero-value Assembler starts Outside.
type Assembler struct {
	st        state
	buf       []byte
	startLine int
}

// NewAssembler returns an Assembler ready to consume physical lines starting at Outside.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// InString reports whether the assembler is currently inside a multi-line string.
func (a *Assembler) InString() bool {
	return a.st == insideString
}

// Feed classifies and folds one physical line (numbered lineNum) into the
// assembler's state. It returns a LogicalLine and true when a logical line
// completes; otherwise it returns false and the assembler keeps buffering.
func (a *Assembler) Feed(lineNum int, line string) (LogicalLine, bool) {
	kind := Classify(line, a.InString())

	switch a.st {
	case outside:
		switch kind {
		case CommandFull, Comment:
			return LogicalLine{StartLine: lineNum, Text: line}, true

		case UnfinishedString:
			a.buf = a.buf[:0]
			a.buf = append(a.buf, line...)
			a.startLine = lineNum
			a.st = insideString
			return LogicalLine{}, false

		default: // EndOfString is unreachable while Outside; treat as COMMAND_FULL.
			return LogicalLine{StartLine: lineNum, Text: line}, true
		}

	default: // insideString
		switch kind {
		case EndOfString:
			a.buf = append(a.buf, '\n')
			a.buf = append(a.buf, line...)
			a.st = outside
			ll := LogicalLine{StartLine: a.startLine, Text: string(a.buf)}
			a.buf = nil
			return ll, true

		default: // UnfinishedString, or a COMMAND_FULL/COMMENT-shaped continuation line.
			a.buf = append(a.buf, '\n')
			a.buf = append(a.buf, line...)
			return LogicalLine{}, false
		}
	}
}
