package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunLint_ExitsCleanOnNoErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clean.asm")
	if err := os.WriteFile(src, []byte("Start:\n nop\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	configPath = ""
	lintStrict = false
	if err := runLint(nil, []string{src}); err != nil {
		t.Fatalf("runLint: %v", err)
	}
}
