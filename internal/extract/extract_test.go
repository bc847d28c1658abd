// Copyright Wang Wei, 2026. All rights reserved.

package extract

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGz(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func tarBytes(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range members {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFileGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "GSE7_counts.txt.gz")
	writeGz(t, archive, "gene\tcount\n")

	var buf bytes.Buffer
	if err := File(archive, &buf); err != nil {
		t.Fatalf("File: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "GSE7_counts.txt"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "gene\tcount\n" {
		t.Errorf("extracted content = %q", string(data))
	}
	// The archive is left in place.
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive should remain: %v", err)
	}
	if !strings.Contains(buf.String(), "extracting:") {
		t.Error("output should contain 'extracting:'")
	}
}

func TestFileGzSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "GSE7_counts.txt.gz")
	writeGz(t, archive, "new content")
	out := filepath.Join(dir, "GSE7_counts.txt")
	if err := os.WriteFile(out, []byte("old content"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := File(archive, &buf); err != nil {
		t.Fatalf("File: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old content" {
		t.Errorf("existing output was overwritten: %q", string(data))
	}
	if !strings.Contains(buf.String(), "extraction skipped") {
		t.Error("output should mention the skip")
	}
}

func TestFileTar(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "GSE76275_RAW.tar")
	members := map[string]string{
		"GSM1976171_sample1.CEL": "cel-one",
		"GSM1976172_sample2.CEL": "cel-two",
	}
	if err := os.WriteFile(archive, tarBytes(t, members), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := File(archive, &buf); err != nil {
		t.Fatalf("File: %v", err)
	}
	for name, want := range members {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s content = %q, want %q", name, string(data), want)
		}
	}
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive should remain: %v", err)
	}
}

func TestFileTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "GSE7_extra.tar.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(tarBytes(t, map[string]string{"nested/readme.txt": "hello"})); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(archive, io.Discard); err != nil {
		t.Fatalf("File: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "nested", "readme.txt"))
	if err != nil {
		t.Fatalf("reading nested member: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("nested content = %q", string(data))
	}
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive should remain: %v", err)
	}
}

func TestFileNonArchiveIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filelist.txt")
	if err := os.WriteFile(path, []byte("listing"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := File(path, &buf); err != nil {
		t.Fatalf("File: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("non-archive should produce no output, got %q", buf.String())
	}
}

func TestFileRejectsEscapingTarMember(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar")
	if err := os.WriteFile(archive, tarBytes(t, map[string]string{"../outside.txt": "nope"}), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(archive, io.Discard); err == nil {
		t.Fatal("expected error for escaping tar member")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "outside.txt")); err == nil {
		t.Error("escaping member must not be written")
	}
}
