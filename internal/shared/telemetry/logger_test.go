package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func TestInfoWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "info")
	t.Cleanup(func() { Configure(os.Stdout, "info") })

	Info("resume.parse_job.status", map[string]any{
		"job_id": "job-1",
		"err":    errors.New("boom"),
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "resume.parse_job.status" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["job_id"] != "job-1" {
		t.Fatalf("expected job_id field, got %v", entry["job_id"])
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", entry["err"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "error")
	t.Cleanup(func() { Configure(os.Stdout, "info") })

	Info("dropped", nil)
	Warn("dropped", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected info/warn filtered, got %s", buf.String())
	}
	Error("kept", nil)
	if buf.Len() == 0 {
		t.Fatalf("expected error line")
	}
}
