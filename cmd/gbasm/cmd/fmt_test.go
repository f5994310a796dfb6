package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFmt_WriteInPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "messy.asm")
	if err := os.WriteFile(src, []byte("loop:   ld a,5\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	configPath = ""
	fmtStyle = "compact"
	fmtWrite = true
	defer func() {
		fmtStyle = ""
		fmtWrite = false
	}()

	if err := runFmt(nil, []string{src}); err != nil {
		t.Fatalf("runFmt: %v", err)
	}

	out, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if !strings.Contains(string(out), "loop:") {
		t.Errorf("expected label preserved in formatted output, got %q", out)
	}
}
