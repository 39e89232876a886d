package converter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Renderer turns a stored document into one raster image per page, written
// into outDir. Output file names must carry the page number so the worker
// can order them.
type Renderer interface {
	Render(ctx context.Context, sourcePath, outDir string) error
}

// EngineRenderer drives an external rendering engine: the office suite
// exports the deck to PDF, then the PDF tool rasterizes one PNG per page
// (slide-1.png, slide-2.png, ...). Both processes are short-lived, so a
// failed run leaves nothing to release beyond the scratch dir the caller
// owns.
type EngineRenderer struct {
	SofficeBin  string
	PdftoppmBin string
}

func (r *EngineRenderer) Render(ctx context.Context, sourcePath, outDir string) error {
	convert := exec.CommandContext(ctx, r.SofficeBin,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, sourcePath)
	if out, err := convert.CombinedOutput(); err != nil {
		return fmt.Errorf("engine export to pdf: %w: %s", err, strings.TrimSpace(string(out)))
	}

	base := filepath.Base(sourcePath)
	pdfPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("engine produced no pdf: %w", err)
	}
	// The intermediate PDF must not be picked up as a page image.
	defer os.Remove(pdfPath)

	rasterize := exec.CommandContext(ctx, r.PdftoppmBin,
		"-png", pdfPath, filepath.Join(outDir, "slide"))
	if out, err := rasterize.CombinedOutput(); err != nil {
		return fmt.Errorf("rasterize pdf: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
