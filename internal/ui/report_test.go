package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleRoutesLevels(t *testing.T) {
	var out, errBuf bytes.Buffer
	c := &Console{Out: &out, Err: &errBuf}

	c.Infof("resolving %s", "v1.18.2")
	c.Okf("installed")
	c.Warnf("declined")
	c.Errorf("boom: %d", 7)

	stdout := out.String()
	stderr := errBuf.String()

	for _, want := range []string{"INFO", "resolving v1.18.2", "OK", "installed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	for _, want := range []string{"WARN", "declined", "ERROR", "boom: 7"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if strings.Contains(stdout, "WARN") || strings.Contains(stdout, "ERROR") {
		t.Error("warnings and errors must not go to stdout")
	}
}

func TestConsoleLineShape(t *testing.T) {
	var out bytes.Buffer
	c := &Console{Out: &out, Err: &out}
	c.Okf("done")
	line := out.String()
	if !strings.HasSuffix(line, "  done\n") {
		t.Errorf("line = %q, want tag, two spaces, message, newline", line)
	}
}
