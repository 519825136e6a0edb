package glossary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGlossary(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.glossary")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write glossary: %v", err)
	}
	return path
}

func TestApplyLiteralAndRegexEntries(t *testing.T) {
	t.Parallel()

	path := writeGlossary(t, `
# preferred terminology
grand father => grandfather
s/\belder\s*bro\b/elder brother/g
`)

	g, err := Load(path, 30)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, err := g.Apply("my Grand Father and elder bro")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "my grandfather and elder brother" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestApplyIteratesUntilStable(t *testing.T) {
	t.Parallel()

	path := writeGlossary(t, "a => b\nb => c\n")
	g, err := Load(path, 5)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, err := g.Apply("a")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "c" {
		t.Fatalf("expected c, got %q", got)
	}
}

func TestLiteralEntryStartingWithS(t *testing.T) {
	t.Parallel()

	// An entry beginning with "s" must not be mistaken for a regex entry.
	path := writeGlossary(t, "shada => white\n")
	g, err := Load(path, 30)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, err := g.Apply("shada cat")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "white cat" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRegexEntryWithoutGlobalReplacesFirstMatchOnly(t *testing.T) {
	t.Parallel()

	e, err := parseRegexEntry(`s/foo/bar/`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got, changed := e.apply("foo foo")
	if !changed || got != "bar foo" {
		t.Fatalf("unexpected result: %q changed=%v", got, changed)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeGlossary(t, "not-an-entry\n"), 30); err == nil {
		t.Fatalf("expected parse error for malformed entry")
	}
	if _, err := parseRegexEntry(`s/foo/bar/x`); err == nil {
		t.Fatalf("expected unsupported flag error")
	}
}

func TestLoadMissingOrEmptyPathIsNoop(t *testing.T) {
	t.Parallel()

	g, err := Load("", 30)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, _ := g.Apply("unchanged"); got != "unchanged" {
		t.Fatalf("empty glossary must not rewrite: %q", got)
	}

	g, err = Load(filepath.Join(t.TempDir(), "missing.glossary"), 30)
	if err != nil {
		t.Fatalf("missing file should yield empty glossary, got %v", err)
	}
	if got, _ := g.Apply("unchanged"); got != "unchanged" {
		t.Fatalf("missing glossary must not rewrite: %q", got)
	}
}
