package util

import (
	"strings"
	"testing"
)

func TestOwnerKey(t *testing.T) {
	got := OwnerKey("guest:12345")
	if got != OwnerKey("guest:12345") {
		t.Fatalf("expected stable key, got %s", got)
	}
	kind, hash, ok := strings.Cut(got, "/")
	if !ok || kind != "guest" {
		t.Fatalf("expected guest namespace, got %s", got)
	}
	if len(hash) != 32 {
		t.Fatalf("expected 32 hex characters, got %d", len(hash))
	}
	for _, ch := range hash {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if strings.Contains(got, "12345") {
		t.Fatalf("raw id leaked into key %s", got)
	}
}

func TestOwnerKeyKinds(t *testing.T) {
	if k := OwnerKey("user:1"); !strings.HasPrefix(k, "user/") {
		t.Fatalf("unexpected key %s", k)
	}
	if k := OwnerKey("svc:1"); !strings.HasPrefix(k, "owner/") {
		t.Fatalf("unexpected key %s", k)
	}
	if OwnerKey("user:1") == OwnerKey("guest:1") {
		t.Fatal("expected distinct keys per principal")
	}
}
