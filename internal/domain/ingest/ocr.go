package ingest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// OCRProvider extracts text from a scanned PDF. Implementations report
// availability so the decode chain can skip the strategy entirely when
// the host lacks the tooling.
type OCRProvider interface {
	Available() bool
	ExtractText(pdfData []byte) (string, error)
}

// TesseractOCR shells out to poppler's pdftoppm for rasterization and to
// tesseract for recognition. Both binaries must be on PATH.
type TesseractOCR struct {
	// DPI for rasterization. Zero means 300, which is enough for typical
	// statement print sizes.
	DPI int
}

// Available reports whether both external binaries can be resolved.
func (t *TesseractOCR) Available() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ExtractText rasterizes every page and concatenates the recognized text
// in page order.
func (t *TesseractOCR) ExtractText(pdfData []byte) (string, error) {
	dir, err := os.MkdirTemp("", "stmt-ocr-")
	if err != nil {
		return "", fmt.Errorf("ocr workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdfData, 0o600); err != nil {
		return "", fmt.Errorf("ocr workspace: %w", err)
	}

	dpi := t.DPI
	if dpi <= 0 {
		dpi = 300
	}

	rasterize := exec.Command("pdftoppm", "-png", "-r", fmt.Sprint(dpi), pdfPath, filepath.Join(dir, "page"))
	if out, err := rasterize.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}

	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil || len(pages) == 0 {
		return "", fmt.Errorf("ocr produced no page images")
	}
	sort.Strings(pages)

	var text strings.Builder
	for _, page := range pages {
		recognize := exec.Command("tesseract", page, "stdout")
		out, err := recognize.Output()
		if err != nil {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		text.Write(out)
		text.WriteByte('\n')
	}

	return text.String(), nil
}

// ProbeOCR returns the first available provider, or nil when none is.
func ProbeOCR(providers ...OCRProvider) OCRProvider {
	for _, p := range providers {
		if p != nil && p.Available() {
			return p
		}
	}
	return nil
}
