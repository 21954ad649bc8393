package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"avnu/internal/catalog"
)

func TestWrite_Fingerprint(t *testing.T) {
	cat := catalog.Default()
	var buf bytes.Buffer
	if err := write(&buf, cat, "fingerprint"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != cat.Fingerprint() {
		t.Fatalf("expected %s, got %s", cat.Fingerprint(), got)
	}
}

func TestWrite_Summary(t *testing.T) {
	cat := catalog.Default()
	var buf bytes.Buffer
	if err := write(&buf, cat, "summary"); err != nil {
		t.Fatalf("write: %v", err)
	}
	var s summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Products != cat.Len() || s.Brands != len(cat.Brands()) {
		t.Fatalf("unexpected counts: %+v", s)
	}
	total := 0
	for _, n := range s.ByCategory {
		total += n
	}
	if total != s.Products {
		t.Fatalf("category counts sum to %d, want %d", total, s.Products)
	}
}

func TestWrite_JSONAndUnknownFormat(t *testing.T) {
	cat := catalog.Default()
	var buf bytes.Buffer
	if err := write(&buf, cat, "json"); err != nil {
		t.Fatalf("write: %v", err)
	}
	var d dump
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Products) != cat.Len() || d.Fingerprint != cat.Fingerprint() {
		t.Fatalf("unexpected dump: %d products, fingerprint %s", len(d.Products), d.Fingerprint)
	}

	if err := write(&buf, cat, "yaml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
