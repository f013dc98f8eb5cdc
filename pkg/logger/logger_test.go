
package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, ParseLevel("warn"))
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	l.Errorf("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") || !strings.Contains(out, "[ERROR] shown 3") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseLevelDefault(t *testing.T) {
	if ParseLevel("nonsense") != LevelInfo {
		t.Fatal("want info as default level")
	}
	if ParseLevel("DEBUG") != LevelDebug {
		t.Fatal("level should be case-insensitive")
	}
}

func TestNilAndDiscard(t *testing.T) {
	var l *Logger
	l.Infof("no panic")
	Discard().Errorf("dropped")
}
