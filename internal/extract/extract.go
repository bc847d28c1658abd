// Copyright Wang Wei, 2026. All rights reserved.

// Package extract unpacks downloaded GEO archives in place. Recognized
// formats are tar, gzip, and gzip-compressed tar; the original archive is
// always left on disk.
package extract

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File unpacks path into its own directory if it is a recognized archive,
// and is a no-op otherwise. For a bare .gz the output is the file name with
// the suffix stripped; an existing output is left untouched.
func File(path string, w io.Writer) error {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz"):
		fmt.Fprintf(w, "extracting: %s\n", name)
		return extractTarGz(path)
	case strings.HasSuffix(path, ".tar"):
		fmt.Fprintf(w, "extracting: %s\n", name)
		return extractTar(path)
	case strings.HasSuffix(path, ".gz"):
		return extractGz(path, w)
	default:
		return nil
	}
}

// extractGz decompresses a bare .gz file next to the archive.
func extractGz(path string, w io.Writer) error {
	outPath := strings.TrimSuffix(path, ".gz")
	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(w, "exists: %s (extraction skipped)\n", filepath.Base(outPath))
		return nil
	}
	fmt.Fprintf(w, "extracting: %s\n", filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip %s: %w", path, err)
	}
	defer gz.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}

	if _, err := io.Copy(out, gz); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("decompressing %s: %w", path, err)
	}
	return out.Close()
}

// extractTar unpacks an uncompressed tar archive into its own directory.
func extractTar(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return unpackTar(f, filepath.Dir(path))
}

// extractTarGz unpacks a gzip-compressed tar archive into its own directory.
func extractTarGz(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip %s: %w", path, err)
	}
	defer gz.Close()
	return unpackTar(gz, filepath.Dir(path))
}

// unpackTar writes the members of a tar stream under destDir. Members whose
// cleaned path would escape destDir are rejected.
func unpackTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}

		name := filepath.Clean(hdr.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("tar member escapes destination: %q", hdr.Name)
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("writing %s: %w", target, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", target, err)
			}
		default:
			// Symlinks and special members are not expected in GEO archives.
		}
	}
}
