package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevLevel := Default.Out, Default.GetLevel()
	defer func() {
		Default.SetOutput(prevOut)
		Default.SetLevel(prevLevel)
	}()
	Default.SetOutput(&buf)

	SetLevel("info")
	Debugf("hidden %d", 1)
	Infof("user %s logged in", "alice")
	Errorf("run: %v", "boom")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	for _, want := range []string{"level=info", "user alice logged in", "level=error", "run: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q is missing %q", out, want)
		}
	}

	buf.Reset()
	SetLevel("debug")
	Debugf("config loaded from %q", "president.yaml")
	if !strings.Contains(buf.String(), "level=debug") {
		t.Fatalf("debug line missing: %q", buf.String())
	}

	SetLevel("loud")
	if Default.GetLevel() != logrus.DebugLevel {
		t.Fatalf("invalid level changed the logger to %v", Default.GetLevel())
	}
}
