package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	r.Notify(ctx, Notice{Level: LevelWarn, Key: "a"})
	r.Notify(ctx, Notice{Level: LevelInfo, Key: "b"})

	if got := r.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("keys = %v", got)
	}
	if got := r.Drain(); len(got) != 2 {
		t.Fatalf("drain returned %d notices", len(got))
	}
	if got := r.Notices(); len(got) != 0 {
		t.Fatalf("expected empty recorder after drain, got %d", len(got))
	}
}

func TestMultiAndLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var r Recorder
	m := Multi{Log{Logger: logger}, &r, nil}
	m.Notify(context.Background(), Notice{Level: LevelWarn, Key: "warn.no_more_marks", Text: "no marks"})

	if len(r.Notices()) != 1 {
		t.Fatalf("expected recorder to receive notice")
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "warn.no_more_marks") {
		t.Errorf("unexpected log output: %s", out)
	}
}
