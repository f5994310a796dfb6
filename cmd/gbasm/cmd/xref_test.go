package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunXref_OnMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := runXref(nil, []string{filepath.Join(dir, "missing.asm")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunXref_OnValidFileSucceeds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.asm")
	if err := os.WriteFile(src, []byte("jp loop\nloop:\n nop\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := runXref(nil, []string{src}); err != nil {
		t.Fatalf("runXref: %v", err)
	}
}
