package linden

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// silenceWarnings redirects warning output for the duration of a test.
func silenceWarnings() func() {
	prev := warnOutput
	warnOutput = io.Discard
	return func() { warnOutput = prev }
}

func TestWarnfFormat(t *testing.T) {
	var buf bytes.Buffer
	prev := warnOutput
	warnOutput = &buf
	defer func() { warnOutput = prev }()

	warnf("pointer capture failed for pointer %d", 3)

	got := buf.String()
	if !strings.HasPrefix(got, "[linden] warning: ") {
		t.Errorf("warning missing prefix: %q", got)
	}
	if !strings.Contains(got, "pointer 3") {
		t.Errorf("warning missing formatted args: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("warning missing trailing newline: %q", got)
	}
}
