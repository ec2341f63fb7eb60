// Package parser ties together reader, lineio and grammar behind a single
// public Parser type, mirroring how original_source/lib/ERMParser.cpp's
// ERMParser::parseFile drives its own reader/assembler/grammar loop.
package parser

import (
	"github.com/ava12/erm"
	"github.com/ava12/erm/ast"
	"github.com/ava12/erm/diag"
	"github.com/ava12/erm/grammar"
	"github.com/ava12/erm/lineio"
	"github.com/ava12/erm/reader"
)

// Stats summarizes one ParseFile run.
type Stats struct {
	Commands int
	Comments int
	Empty    int
	Failed   int
}

// Parser parses a single ERM script file. It is not reused across files;
// construct a new Parser per path.
type Parser struct {
	path       string
	maxLineLen int
}

// New returns a Parser for path. It does not open the file: errors surface
// from ParseFile.
func New(path string) *Parser {
	return &Parser{path: path, maxLineLen: reader.DefaultMaxLineLength}
}

// WithMaxLineLength overrides the default maximum physical-line length.
func (p *Parser) WithMaxLineLength(n int) *Parser {
	if n > 0 {
		p.maxLineLen = n
	}
	return p
}

// ParseFile reads and parses the file, reporting every diagnosed situation
// to sink and returning the accumulated ast.Lines for every logical line that
// parsed (command, comment or empty) alongside run statistics. A FileOpenFailed or BadHeader diagnostic aborts
// the run immediately (returned err is non-nil); any other diagnostic is
// non-fatal and parsing continues with the next line, per spec.md's error
// propagation policy.
func (p *Parser) ParseFile(sink diag.Sink) ([]ast.Line, Stats, error) {
	r, err := reader.Open(p.path, p.maxLineLen)
	if err != nil {
		sink.Report(diag.FileOpenFailed, 0, err.Error())
		return nil, Stats{}, err
	}
	defer r.Close()

	if err := r.CheckHeader(); err != nil {
		sink.Report(diag.BadHeader, 0, err.Error())
		return nil, Stats{}, err
	}

	asm := lineio.NewAssembler()
	var lines []ast.Line
	var stats Stats

	for {
		phys, ok, err := r.Next()
		if err != nil {
			return lines, stats, erm.FormatError(erm.ReaderErrors, "error reading %s: %v", p.path, err)
		}
		if !ok {
			break
		}

		if phys.TooLong {
			sink.Report(diag.LineTooLong, phys.Number,
				formatTooLongMessage(p.path, phys.Number))
		}

		logical, complete := asm.Feed(phys.Number, phys.Text)
		if !complete {
			continue
		}

		line, perr := grammar.Parse(logical.StartLine, logical.Text)
		if perr != nil {
			stats.Failed++
			sink.Report(diag.ParseFailed, logical.StartLine, perr.Error())
			continue
		}

		lines = append(lines, line)
		switch line.Kind {
		case ast.LineCommand:
			stats.Commands++
		case ast.LineComment:
			stats.Comments++
		default:
			stats.Empty++
		}
	}

	return lines, stats, nil
}

func formatTooLongMessage(path string, line int) string {
	return erm.FormatError(erm.ReaderErrors,
		"Encountered a problem during parsing %s too long line (%d)", path, line).Error()
}
