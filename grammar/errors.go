package grammar

import "fmt"

// Production names, used verbatim in "Error! Expecting ... here" diagnostics.
// These mirror the qi::rule.name() calls in original_source/lib/ERMParser.cpp,
// which is what the original tool's on_error<qi::fail> handler prints.
//
// Only productions that can actually be the deepest failing point get a name
// here: comment, comment_line, identifier, condition, instruction and
// receiver are all nullable or delegate their failure entirely to a
// sub-production (cmd_name, body, ...), so they never reach p.fail themselves.
const (
	prodStringConst = "string constant"
	prodIExp        = "i-expression"
	prodCmdName     = "name of a command"
	prodTrigger     = "trigger"
	prodBody        = "body"
	prodPostOBTrig  = "post OB trigger"
	prodCommand     = "command"
	prodScriptLine  = "script line"
)

// failure records the furthest position at which a named production could
// not continue. Only the deepest failure is kept: it is the most useful one
// to report, since every shallower alternative necessarily also failed.
type failure struct {
	production string
	pos        int
}

func (p *parser) fail(production string) {
	pos := p.pos()
	if p.failure == nil || pos > p.failure.pos {
		p.failure = &failure{production: production, pos: pos}
	}
}

// buildError renders the stable "Parse error for line (%d) : %s" plus
// "Cannot parse: ..." and "Error! Expecting ... here" message spec.md
// requires, using the deepest recorded failure (or "script line" at the end
// of the text if nothing more specific ever failed).
func (p *parser) buildError(lineNum int, text string) error {
	prod := prodScriptLine
	pos := len(text)
	if p.failure != nil {
		prod = p.failure.production
		pos = p.failure.pos
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	tail := text[pos:]

	msg := fmt.Sprintf("Parse error for line (%d) : %s\n\tCannot parse: %s\nError! Expecting %s here: \"%s\"",
		lineNum, text, tail, prod, tail)
	return &Error{Line: lineNum, Production: prod, Tail: tail, msg: msg}
}

// Error is returned by Parse when a logical line does not match the grammar.
type Error struct {
	Line       int
	Production string
	Tail       string
	msg        string
}

func (e *Error) Error() string {
	return e.msg
}
