// Package grammar implements the ERM line grammar: a small recursive-descent,
// locally-backtracking parser turning one already-reassembled logical line
// into an ast.Line. It is ported from the Boost.Spirit::Qi grammar in
// original_source/lib/ERMParser.cpp, rule by rule, but as plain Go functions
// over a source.Cursor rather than a combinator-generated table: ERM lines
// are short and the grammar backtracks over at most a handful of characters
// at a time, so no memoization or generated tables are needed.
package grammar

import (
	"strconv"

	"github.com/ava12/erm/ast"
)

// Parse parses one logical line's text (already reassembled by lineio, with
// its physical-line terminators stripped) into an ast.Line. lineNum is used
// only to build the diagnostic message on failure.
func Parse(lineNum int, text string) (ast.Line, error) {
	p := newParser(text)
	line, ok := p.parseLine()
	if !ok || p.hardFail {
		return ast.Line{}, p.buildError(lineNum, text)
	}
	return line, nil
}

// parseLine implements: line = command | comment_line | eps.
//
// A logical line beginning with '!' is always attempted as a command and
// never falls back to comment_line, even if the command fails to parse: the
// leading '!' commits the line to being a command (see spec.md's invariant
// that a line starting with anything but '!' is a CommentLine, and never
// the reverse).
func (p *parser) parseLine() (ast.Line, bool) {
	if b, ok := p.peek(); ok && b == '!' {
		cmd, ok := p.parseCommand()
		if !ok {
			return ast.Line{}, false
		}
		if !p.cur.AtEnd() {
			p.fail(prodScriptLine)
			return ast.Line{}, false
		}
		return ast.Line{Kind: ast.LineCommand, Command: cmd}, true
	}

	if p.cur.AtEnd() {
		return ast.Line{Kind: ast.LineEmpty}, true
	}

	text, _ := p.parseCommentLine()
	return ast.Line{Kind: ast.LineComment, Comment: text}, true
}

// parseCommentLine implements: comment_line = (any_char - '!') comment.
// The caller has already established the line does not start with '!', so
// this always succeeds by taking the whole remaining line as the comment.
func (p *parser) parseCommentLine() (string, bool) {
	if _, ok := p.peek(); !ok {
		return "", false
	}
	rest := string(p.cur.Rest())
	p.skip(len(p.cur.Rest()))
	return rest, true
}

// parseCommand implements:
//
//	command = '!' ( '?' trigger
//	              | ('!' | "d!" | " !") receiver
//	              | '#' instruction
//	              | post_ob_trig
//	              ) comment
//
// The four alternatives are prefix-disjoint on the character right after the
// leading '!' (or, for "d!"/" !", the two characters right after it), so no
// backtracking is needed between command kinds: the first matching prefix
// commits the whole line to that command kind.
func (p *parser) parseCommand() (ast.Command, bool) {
	start := p.pos()
	p.advance() // leading '!'

	b, ok := p.peek()
	if !ok {
		p.seek(start)
		p.fail(prodCommand)
		return ast.Command{}, false
	}

	var cmd ast.CommandCmd
	var ok2 bool

	switch {
	case b == '?':
		p.advance()
		trig, ok3 := p.parseTrigger()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindTrigger, Trigger: trig}, ok3

	case b == '#':
		p.advance()
		instr, ok3 := p.parseInstruction()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindInstruction, Instruction: instr}, ok3

	case b == '!':
		p.advance()
		recv, ok3 := p.parseReceiver()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindReceiver, Receiver: recv}, ok3

	case b == 'd' && p.hasPrefix("d!"):
		p.skip(2)
		recv, ok3 := p.parseReceiver()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindReceiver, Receiver: recv}, ok3

	case b == ' ' && p.hasPrefix(" !"):
		p.skip(2)
		recv, ok3 := p.parseReceiver()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindReceiver, Receiver: recv}, ok3

	case p.hasPrefix("$OB"):
		p.skip(3)
		pob, ok3 := p.parsePostOBTrigger()
		cmd, ok2 = ast.CommandCmd{Kind: ast.KindPostOBTrigger, PostOBTrigger: pob}, ok3

	default:
		p.fail(prodCommand)
		return ast.Command{}, false
	}

	if !ok2 {
		return ast.Command{}, false
	}

	comment := p.parseComment()
	return ast.Command{Cmd: cmd, Comment: comment}, true
}

// parseComment implements: comment = *any_char. It always succeeds,
// consuming whatever text remains on the line.
func (p *parser) parseComment() string {
	rest := string(p.cur.Rest())
	p.skip(len(p.cur.Rest()))
	return rest
}

// parseCmdName implements: cmd_name = char char. Exactly two raw characters,
// unrestricted, per spec.md: this is the one place a command name is
// recognized without regard to what commands the game engine actually knows.
func (p *parser) parseCmdName() (string, bool) {
	rest := p.cur.Rest()
	if len(rest) < 2 {
		p.fail(prodCmdName)
		return "", false
	}
	name := string(rest[:2])
	p.skip(2)
	return name, true
}

func (p *parser) parseTrigger() (ast.Trigger, bool) {
	name, ok := p.parseCmdName()
	if !ok {
		return ast.Trigger{}, false
	}
	id := p.parseIdentifier()
	cond := p.parseCondition()
	p.skipSpaces()
	b, ok := p.peek()
	if !ok || b != ';' {
		p.fail(prodTrigger)
		return ast.Trigger{}, false
	}
	p.advance()
	return ast.Trigger{Name: name, Identifier: id, Condition: cond}, true
}

func (p *parser) parseInstruction() (ast.Instruction, bool) {
	name, ok := p.parseCmdName()
	if !ok {
		return ast.Instruction{}, false
	}
	id := p.parseIdentifier()
	cond := p.parseCondition()
	body, ok := p.parseBody()
	if !ok {
		return ast.Instruction{}, false
	}
	return ast.Instruction{Name: name, Identifier: id, Condition: cond, Body: body}, true
}

// parseReceiver implements the receiver production. Like the original
// grammar, it always requires a body: ERM scripts occasionally write a
// receiver with no body at all, which this grammar (like the one it is
// ported from) does not accept. See DESIGN.md.
func (p *parser) parseReceiver() (ast.Receiver, bool) {
	name, ok := p.parseCmdName()
	if !ok {
		return ast.Receiver{}, false
	}
	id := p.parseIdentifier()
	cond := p.parseCondition()
	body, ok := p.parseBody()
	if !ok {
		return ast.Receiver{}, false
	}
	return ast.Receiver{Name: name, Identifier: id, Condition: cond, Body: body}, true
}

func (p *parser) parsePostOBTrigger() (ast.PostOBTrigger, bool) {
	id := p.parseIdentifier()
	cond := p.parseCondition()
	p.skipSpaces()
	b, ok := p.peek()
	if !ok || b != ';' {
		p.fail(prodPostOBTrig)
		return ast.PostOBTrigger{}, false
	}
	p.advance()
	return ast.PostOBTrigger{Identifier: id, Condition: cond}, true
}

// parseBody implements: body = ':' (body_char | string_lit | macro)* ';'.
func (p *parser) parseBody() (ast.Body, bool) {
	b, ok := p.peek()
	if !ok || b != ':' {
		p.fail(prodBody)
		return nil, false
	}
	p.advance()

	var items ast.Body
	for {
		b, ok := p.peek()
		if !ok {
			p.fail(prodBody)
			return nil, false
		}
		switch {
		case b == ';':
			p.advance()
			return items, true

		case b == '^':
			s, ok := p.parseStringLit()
			if !ok {
				return nil, false
			}
			items = append(items, ast.BodyItem{Kind: ast.BodyString, String: s})

		case b == '$':
			m, ok := p.tryParseMacro()
			if !ok {
				p.fail(prodBody)
				return nil, false
			}
			items = append(items, ast.BodyItem{Kind: ast.BodyMacro, Macro: m})

		case isBodyChar(b):
			p.advance()
			items = append(items, ast.BodyItem{Kind: ast.BodyChar, Char: b})

		default:
			p.fail(prodBody)
			return nil, false
		}
	}
}

// isBodyChar implements the body_char character class from the original
// grammar's qi::char_("a-zA-Z0-9/ @*?%+-:|&=><-"). In Boost.Spirit::Qi
// char-class syntax a '-' between two characters denotes a range, not a
// literal, so "+-:" is the range '+'..':' inclusive (+ , - . / 0-9 :), which
// admits ',' and '.' into body text alongside the literal punctuation.
func isBodyChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '/', ' ', '@', '*', '?', '%', '+', '-', ':', '|', '&', '=', '>', '<', ',', '.':
		return true
	}
	return false
}

// parseStringLit implements: string_lit = '^' *(any_char - '^') '^'.
// Called with the current character positioned on the opening '^'.
func (p *parser) parseStringLit() (string, bool) {
	p.advance() // opening '^'
	start := p.pos()
	for {
		b, ok := p.peek()
		if !ok {
			p.fail(prodStringConst)
			return "", false
		}
		if b == '^' {
			s := p.textRange(start, p.pos())
			p.advance()
			return s, true
		}
		p.advance()
	}
}

// tryParseMacro implements: macro = '$' *(any_char - '$') '$'. Called with
// the current character positioned on the opening '$'. Unlike string_lit,
// macro is used inside the optional (int | macro) suffix of an i-expression,
// so an unterminated macro must not consume any input: it simply means no
// macro value is present here, exactly like Boost.Spirit's qi::optional
// backtracking out of a failed alternative.
func (p *parser) tryParseMacro() (string, bool) {
	save := p.pos()
	p.advance() // opening '$'
	start := p.pos()
	for {
		b, ok := p.peek()
		if !ok {
			p.seek(save)
			return "", false
		}
		if b == '$' {
			s := p.textRange(start, p.pos())
			p.advance()
			return s, true
		}
		p.advance()
	}
}

// parseIExp implements: iexp = *(lower_letter - 'u') -(int | macro). This
// always succeeds, possibly consuming nothing at all: both the letter run
// and the trailing value are optional.
func (p *parser) parseIExp() ast.IExp {
	start := p.pos()
	for {
		b, ok := p.peek()
		if !ok || b < 'a' || b > 'z' || b == 'u' {
			break
		}
		p.advance()
	}
	varSym := p.textRange(start, p.pos())

	var val ast.IExpVal
	if b, ok := p.peek(); ok {
		switch {
		case b == '$':
			if m, ok := p.tryParseMacro(); ok {
				val = ast.IExpVal{Kind: ast.MacroVal, Macro: m}
			}
		case b == '-' || (b >= '0' && b <= '9'):
			if n, ok := p.tryParseInt(); ok {
				val = ast.IExpVal{Kind: ast.IntVal, Int: n}
			}
		}
	}
	return ast.IExp{VarSym: varSym, Val: val}
}

func (p *parser) tryParseInt() (int, bool) {
	save := p.pos()
	neg := false
	if b, ok := p.peek(); ok && b == '-' {
		neg = true
		p.advance()
	}
	start := p.pos()
	for {
		b, ok := p.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		p.advance()
	}
	if p.pos() == start {
		p.seek(save)
		return 0, false
	}
	digits := p.textRange(start, p.pos())
	n, err := strconv.Atoi(digits)
	if err != nil {
		// A digit run that overflows int is not "no integer here" (which
		// would let the nullable i-expression silently fall back to empty):
		// it is a malformed one, so it fails the whole line rather than
		// fabricating a wrong value.
		p.fail(prodIExp)
		p.hardFail = true
		p.seek(save)
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// startsIdentifier reports whether the current character could plausibly
// begin an i-expression or arithmetic op, as opposed to a condition
// (which starts with '&', '|', 'X' or '/') or a body/terminator. Both iexp
// and comparison are nullable in the original grammar, so -identifier
// cannot be resolved simply by "did identifier match": it always would.
// This lookahead is what makes -identifier actually optional in practice.
func (p *parser) startsIdentifier() bool {
	b, ok := p.peek()
	if !ok {
		return false
	}
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-' || b == '$'
}

func (p *parser) parseIdentifier() *ast.Identifier {
	if !p.startsIdentifier() {
		return nil
	}
	items := ast.Identifier{p.parseIdentifierItem()}
	for {
		b, ok := p.peek()
		if !ok || b != '/' {
			break
		}
		p.advance()
		items = append(items, p.parseIdentifierItem())
	}
	return &items
}

// parseIdentifierItem implements the iexp/arith_op ambiguity: try iexp
// first; if what follows is '/' or end of input, commit to the plain iexp.
// Otherwise tentatively consume one character as an arithmetic opcode and
// parse a second iexp. If that second iexp actually consumed something,
// this is a genuine arith_op; otherwise the "opcode" character does not
// introduce a second operand, so back off to the plain iexp and leave that
// character for whatever comes after the identifier to deal with.
func (p *parser) parseIdentifierItem() ast.IdentifierItem {
	lhs := p.parseIExp()
	if b, ok := p.peek(); !ok || b == '/' {
		return ast.IdentifierItem{Kind: ast.ItemIExp, IExp: lhs}
	}

	afterLhs := p.pos()
	opcode := p.advance()
	rhs := p.parseIExp()
	if !rhs.Empty() {
		return ast.IdentifierItem{Kind: ast.ItemArithOp, ArithOp: ast.ArithOp{Lhs: lhs, Opcode: opcode, Rhs: rhs}}
	}

	p.seek(afterLhs)
	return ast.IdentifierItem{Kind: ast.ItemIExp, IExp: lhs}
}

func (p *parser) startsCondition() bool {
	b, ok := p.peek()
	return ok && (b == '&' || b == '|' || b == 'X' || b == '/')
}

// parseCondition implements: condition = char_class('&','|','X','/') (comparison | int) -condition.
func (p *parser) parseCondition() *ast.Condition {
	if !p.startsCondition() {
		return nil
	}
	ctype := p.advance()
	term := p.parseCondTerm()
	cond := &ast.Condition{CType: ctype, Cond: term}
	cond.Rhs = p.parseCondition()
	return cond
}

// parseCondTerm implements the (comparison | int) alternative. Both
// comparison and its constituent iexps are nullable, so a naive
// comparison-first ordered choice would never actually reach the int
// alternative (an integer alone already parses as a trivial comparison with
// an empty sign and empty rhs). Concretely, "&1001" must produce a bare
// condition flag 1001, not Comparison{lhs: iexp{val:1001}}. This collapses a
// comparison with no operator and no rhs, and whose lhs is a bare integer
// with no var symbol, into the int alternative; anything else (a var symbol
// present, an explicit comparison sign, or a non-empty rhs) stays a
// Comparison, matching the worked examples in spec.md.
func (p *parser) parseCondTerm() ast.CondTerm {
	lhs := p.parseIExp()
	cmpSign := p.parseCmpSign()
	rhs := p.parseIExp()

	if cmpSign == "" && rhs.Empty() && lhs.VarSym == "" && lhs.Val.Kind == ast.IntVal {
		return ast.CondTerm{Kind: ast.TermFlag, Flag: lhs.Val.Int}
	}
	return ast.CondTerm{Kind: ast.TermComparison, Comparison: ast.Comparison{Lhs: lhs, CmpSign: cmpSign, Rhs: rhs}}
}

func (p *parser) parseCmpSign() string {
	start := p.pos()
	for {
		b, ok := p.peek()
		if !ok || (b != '<' && b != '=' && b != '>') {
			break
		}
		p.advance()
	}
	return p.textRange(start, p.pos())
}
