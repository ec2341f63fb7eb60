package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ava12/erm/ast"
	"github.com/ava12/erm/diag"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.erm")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestParseFileHappyPath(t *testing.T) {
	path := writeScript(t, "ZVSE\n!?MA;\n; a comment\n!!HE:S;\n")
	sink := diag.NewCollectingSink()
	lines, stats, err := New(path).ParseFile(sink)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(sink.Reports) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", sink.Reports)
	}
	if stats.Commands != 2 || stats.Comments != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Kind != ast.LineCommand || lines[1].Kind != ast.LineComment {
		t.Errorf("unexpected line kinds: %+v %+v", lines[0], lines[1])
	}
}

func TestParseFileMissingFileAborts(t *testing.T) {
	sink := diag.NewCollectingSink()
	_, _, err := New(filepath.Join(t.TempDir(), "missing.erm")).ParseFile(sink)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != diag.FileOpenFailed {
		t.Fatalf("expected one FileOpenFailed report, got %+v", sink.Reports)
	}
}

func TestParseFileBadHeaderAborts(t *testing.T) {
	path := writeScript(t, "NOPE\n!?MA;\n")
	sink := diag.NewCollectingSink()
	_, _, err := New(path).ParseFile(sink)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != diag.BadHeader {
		t.Fatalf("expected one BadHeader report, got %+v", sink.Reports)
	}
}

func TestParseFileContinuesAfterParseFailure(t *testing.T) {
	// "!?;" is missing its two-character command name and fails to parse;
	// the next line must still be parsed.
	path := writeScript(t, "ZVSE\n!?;\n!?MA;\n")
	sink := diag.NewCollectingSink()
	lines, stats, err := New(path).ParseFile(sink)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if stats.Failed != 1 || stats.Commands != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != diag.ParseFailed || sink.Reports[0].Line != 2 {
		t.Fatalf("unexpected reports: %+v", sink.Reports)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 surviving line, got %d", len(lines))
	}
}

func TestParseFileReassemblesMultilineString(t *testing.T) {
	path := writeScript(t, "ZVSE\n!!IF:M^hello\nworld^;\n")
	sink := diag.NewCollectingSink()
	lines, _, err := New(path).ParseFile(sink)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(sink.Reports) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", sink.Reports)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 logical line, got %d", len(lines))
	}
	body := lines[0].Command.Cmd.Receiver.Body
	if len(body) != 2 || body[1].String != "hello\nworld" {
		t.Fatalf("unexpected reassembled body: %+v", body)
	}
}

func TestParseFileFlagsTooLongLine(t *testing.T) {
	long := strings.Repeat("x", 50)
	path := writeScript(t, "ZVSE\n; "+long+"\n")
	sink := diag.NewCollectingSink()
	_, _, err := New(path).WithMaxLineLength(10).ParseFile(sink)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != diag.LineTooLong {
		t.Fatalf("expected one LineTooLong report, got %+v", sink.Reports)
	}
}
