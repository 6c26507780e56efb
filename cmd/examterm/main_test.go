package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const pool = `[
  {"kind": "single_select", "question": "2+2?", "options": ["3", "4"], "answer": "B", "score": 1},
  {"kind": "multi_select", "question": "Primes?", "options": ["2", "3", "4"], "answer": "AB", "score": 2},
  {"kind": "judge", "question": "1 is prime.", "answer": "no", "score": 1}
]`

func writePool(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pool.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pool: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	path := writePool(t, t.TempDir(), pool)

	out, err := execute(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 questions") || !strings.Contains(out, "multi_select=1") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCheckCommandRejectsInvalid(t *testing.T) {
	path := writePool(t, t.TempDir(), `[{"kind": "judge", "question": "q", "answer": "maybe"}]`)

	if _, err := execute(t, "check", path); err == nil {
		t.Error("check accepted an invalid pool")
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writePool(t, dir, pool)
	db := filepath.Join(dir, "pool.db")

	out, err := execute(t, "import", "--db", db, "--title", "Arithmetic", path)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported 3 questions") {
		t.Errorf("unexpected output %q", out)
	}

	// A second import of the same file adds nothing.
	out, err = execute(t, "import", "--db", db, path)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if !strings.Contains(out, "unchanged") || !strings.Contains(out, "3 questions") {
		t.Errorf("second import changed the pool: %q", out)
	}

	writePool(t, dir, `[{"kind": "judge", "question": "New", "answer": "yes", "score": 1}]`)
	out, err = execute(t, "import", "--db", db, path)
	if err != nil {
		t.Fatalf("import of a changed file: %v", err)
	}
	if !strings.Contains(out, "changed since it was imported") {
		t.Errorf("changed file was not reported: %q", out)
	}
}

func TestOpenSourceReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writePool(t, dir, pool)
	v := viper.New()
	v.Set("db", filepath.Join(dir, "pool.db"))
	v.Set("questions", []string{path})

	var report bytes.Buffer
	_, _, closeSrc, err := openSource(v, &report)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	closeSrc()
	if !strings.Contains(report.String(), "imported 3 questions") {
		t.Errorf("report = %q", report.String())
	}

	writePool(t, dir, `[{"kind": "judge", "question": "New", "answer": "yes", "score": 1}]`)
	report.Reset()
	_, _, closeSrc, err = openSource(v, &report)
	if err != nil {
		t.Fatalf("openSource after change: %v", err)
	}
	closeSrc()
	if !strings.Contains(report.String(), "warning: "+path+" changed") {
		t.Errorf("stale pool not reported: %q", report.String())
	}
}

func TestOpenSourceRejectsEmptyDatabase(t *testing.T) {
	v := viper.New()
	v.Set("db", filepath.Join(t.TempDir(), "empty.db"))

	if _, _, _, err := openSource(v, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Errorf("err = %v, want an empty pool error", err)
	}
}
