// Copyright Wang Wei, 2026. All rights reserved.

package fetch

// Mode selects which file categories to download for a series.
type Mode int

const (
	ModeBoth Mode = iota
	ModeMatrix
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeMatrix:
		return "matrix"
	case ModeRaw:
		return "raw"
	default:
		return "both"
	}
}

// WantsMatrix reports whether the mode includes series-matrix files.
func (m Mode) WantsMatrix() bool { return m == ModeBoth || m == ModeMatrix }

// WantsRaw reports whether the mode includes raw supplementary files.
func (m Mode) WantsRaw() bool { return m == ModeBoth || m == ModeRaw }

// seriesFTPBase is the root of the GEO series tree, served over HTTPS.
// Declared as a var so tests can substitute an httptest server.
var seriesFTPBase = "https://ftp.ncbi.nlm.nih.gov/geo/series/"

// SeriesDirURL returns the directory URL for a series on the GEO FTP server.
func SeriesDirURL(accession string) string {
	return seriesFTPBase + PrefixBucket(accession) + "/" + accession + "/"
}

// MatrixDirURL returns the series-matrix directory URL for a series.
func MatrixDirURL(accession string) string {
	return SeriesDirURL(accession) + "matrix/"
}

// SupplDirURL returns the supplementary-file directory URL for a series.
func SupplDirURL(accession string) string {
	return SeriesDirURL(accession) + "suppl/"
}

// MatrixFallbackName is the well-known series-matrix file name used when the
// directory listing is unavailable.
func MatrixFallbackName(accession string) string {
	return accession + "_series_matrix.txt.gz"
}

// RawFallbackName is the well-known raw archive name used when the
// supplementary directory listing is unavailable.
func RawFallbackName(accession string) string {
	return accession + "_RAW.tar"
}
