// Copyright Wang Wei, 2026. All rights reserved.

package fetch

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// gsePattern matches GSE series accessions: "GSE76275", "GSE999".
var gsePattern = regexp.MustCompile(`^GSE\d+$`)

// Normalize trims and upper-cases raw and reports whether the result is a
// valid GSE accession.
func Normalize(raw string) (string, bool) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	return id, gsePattern.MatchString(id)
}

// PrefixBucket returns the FTP path component grouping a series with its
// neighbors: series numbers below 1000 live under "GSEnnn", the rest under
// the accession with its last three digits replaced (GSE76275 -> GSE76nnn).
func PrefixBucket(accession string) string {
	digits := strings.TrimPrefix(accession, "GSE")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1000 {
		return "GSEnnn"
	}
	return "GSE" + digits[:len(digits)-3] + "nnn"
}

// ParseList splits a comma-separated accession argument into the ordered,
// de-duplicated valid accessions and the malformed entries. Empty segments
// are ignored.
func ParseList(csv string) (valid, malformed []string) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, ok := Normalize(part)
		if !ok {
			malformed = append(malformed, strings.TrimSpace(part))
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		valid = append(valid, id)
	}
	return valid, malformed
}

// ReadFile reads one accession per line from path, skipping blank lines and
// "#" comments. It returns the ordered, de-duplicated valid accessions and
// the malformed lines. A missing or unreadable file is an error.
func ReadFile(path string) (valid, malformed []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening accession file %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, ok := Normalize(line)
		if !ok {
			malformed = append(malformed, line)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		valid = append(valid, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading accession file %s: %w", path, err)
	}
	return valid, malformed, nil
}
