package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheCommandSummarizesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	content := `{"Go role":[{"returnedQuery":"a"},{"returnedQuery":"b"}],"Rust role":[{"returnedQuery":"c"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"cache", "--file", path})
	t.Cleanup(func() { cacheFile = "" })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Go role") || !strings.Contains(got, "Rust role") {
		t.Fatalf("missing keys in output:\n%s", got)
	}
	if !strings.Contains(got, "TOTAL") || !strings.Contains(got, "2 job descriptions") {
		t.Fatalf("missing total in output:\n%s", got)
	}
}

func TestPreviewFlattensAndTruncates(t *testing.T) {
	if got := preview("a\nb\tc", 10); got != "a b c" {
		t.Fatalf("preview = %q", got)
	}
	if got := preview("abcdef", 3); got != "abc..." {
		t.Fatalf("preview = %q", got)
	}
}

func TestReadJobDescriptionFromStdin(t *testing.T) {
	got, err := readJobDescription(strings.NewReader("Go role\n"), "-")
	if err != nil {
		t.Fatalf("readJobDescription: %v", err)
	}
	if got != "Go role\n" {
		t.Fatalf("readJobDescription = %q", got)
	}
}
