package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/ipskit/pkg/ips"
)

// resetGlobals restores every flag variable to its default.
func resetGlobals() {
	verbose, quiet, jsonOut, noColor = false, false, false, false
	configPath, logFile = "", ""
	cfg = Config{Server: DefaultServer}

	applyOutput, applyStrict, applyBackup, dryRun = "", false, false, false
	infoRecords = false
	mergeOutput, mergeStrict, mergeBackup = "", false, false
	fetchSeed, fetchFlags, fetchFragment = "", "", ""
	fetchServer, fetchSavePatch, fetchOutput = "", "", ""
}

// writeFile writes data into dir and returns its path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// writePatch encodes records into dir/name.
func writePatch(t *testing.T, dir, name string, records ...ips.Record) string {
	t.Helper()
	data, err := ips.Encode(records)
	if err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return writeFile(t, dir, name, data)
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
