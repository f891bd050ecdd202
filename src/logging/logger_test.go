package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// capture sends log output to a buffer for the rest of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr); SetLevel("info") })
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := capture(t)
	SetLevel("info")

	msg := "[cli] dataset 3 ready: Pump 60% of 5 records (flow 100.0% of gauge)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "Pump 60% of 5") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	if !SetLevel("warn") {
		t.Fatalf("warn should be a known level")
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line leaked at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN] shown 2") {
		t.Fatalf("warn line missing: %s", buf.String())
	}
	if SetLevel("verbose") {
		t.Fatalf("unknown level accepted")
	}
	if GetLevel() != LevelWarn {
		t.Fatalf("unknown level changed the current level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, " INFO ": LevelInfo, "warning": LevelWarn, "Error": LevelError}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", in, got, ok, want)
		}
		if back, _ := ParseLevel(got.String()); back != got {
			t.Fatalf("%v does not round-trip through its name", got)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("unknown name accepted")
	}
}

func TestTimeTrackOnlyAtDebug(t *testing.T) {
	buf := capture(t)
	TimeTrack(time.Now(), "[fetch] quiet")
	if buf.Len() != 0 {
		t.Fatalf("timing logged above debug: %s", buf.String())
	}
	SetLevel("debug")
	TimeTrack(time.Now().Add(-time.Millisecond), "[fetch] load")
	if !strings.Contains(buf.String(), "[DEBUG] [fetch] load took ") {
		t.Fatalf("timing line missing: %s", buf.String())
	}
}
