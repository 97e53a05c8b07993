package internal

import (
	"io"
	"testing"

	"github.com/pixil98/go-testutil"
)

// lineConn feeds one scripted line per Read call and discards writes, which
// matches how a line-based connection behaves under a buffered reader.
type lineConn struct {
	lines []string
}

func (c *lineConn) Read(p []byte) (int, error) {
	if len(c.lines) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.lines[0]+"\n")
	c.lines = c.lines[1:]
	return n, nil
}

func (c *lineConn) Write(p []byte) (int, error) {
	return len(p), nil
}

func TestPromptWithDefault(t *testing.T) {
	got, err := Prompt(&lineConn{lines: []string{""}}, "> ", WithDefault("fallback"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", got, "fallback")

	got, err = Prompt(&lineConn{lines: []string{"typed"}}, "> ", WithDefault("fallback"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", got, "typed")
}

func TestPromptInt(t *testing.T) {
	got, err := PromptInt(&lineConn{lines: []string{"seven", "9", "3"}}, "> ", 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", got, 3)
}

func TestPromptChoice(t *testing.T) {
	got, err := PromptChoice(&lineConn{lines: []string{"maybe", "URL"}}, "> ", []string{"none", "path", "url"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", got, "url")
}

func TestPromptMaxTries(t *testing.T) {
	_, err := Prompt(&lineConn{lines: []string{"a", "b", "c"}}, "> ",
		WithMaxTries(2),
		WithValidator(func(string) (bool, string) { return false, "no\n" }),
	)
	if err == nil {
		t.Error("expected error after too many tries")
	}
}
