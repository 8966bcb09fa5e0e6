package publications

import (
	"math"

	pdf "rsc.io/pdf"
)

// PageCount opens a PDF on disk and returns its page count. Cover images and
// non-PDF uploads simply report an error; callers fall back to zero pages.
func PageCount(filePath string) (int, error) {
	r, err := pdf.Open(filePath)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// PreviewPages returns the number of leading pages rendered under
// preview-only access: 20% of the document, rounded up, at least one page
// for any non-empty document.
func PreviewPages(totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	n := int(math.Ceil(float64(totalPages) * 0.20))
	if n < 1 {
		n = 1
	}
	return n
}
