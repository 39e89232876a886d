// Package converter materializes uploaded decks into per-slide images.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RonnyAreUneMi/exposiciones/internal/models"
	"github.com/RonnyAreUneMi/exposiciones/internal/storage"
	"github.com/RonnyAreUneMi/exposiciones/internal/store"
)

var ErrSourceMissing = errors.New("source file missing")

// Worker runs conversions in the background. A buffered-channel semaphore
// caps how many renders run at once, since the external engine does not cope
// well with parallel instances.
type Worker struct {
	store    *store.Store
	blobs    storage.Provider
	renderer Renderer
	log      *slog.Logger
	sem      chan struct{}

	// ScratchRoot is where per-presentation export dirs are created.
	// Defaults to the OS temp dir.
	ScratchRoot string
}

func NewWorker(st *store.Store, blobs storage.Provider, renderer Renderer, log *slog.Logger, maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Worker{
		store:       st,
		blobs:       blobs,
		renderer:    renderer,
		log:         log,
		sem:         make(chan struct{}, maxConcurrent),
		ScratchRoot: os.TempDir(),
	}
}

// Dispatch schedules a conversion without blocking the caller. Failures and
// panics stay inside the goroutine; the uploaded record simply keeps zero
// slides, which viewers show as "processing".
func (w *Worker) Dispatch(p *models.Presentation) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("conversion panic", "presentation_id", p.ID, "panic", r)
			}
		}()
		w.sem <- struct{}{}
		defer func() { <-w.sem }()

		if err := w.Convert(context.Background(), p); err != nil {
			w.log.Error("conversion failed", "presentation_id", p.ID, "err", err)
			return
		}
		w.log.Info("conversion done", "presentation_id", p.ID)
	}()
}

// Convert renders every page of the presentation's file, persists one slide
// per page in page order starting at zero, and sets the thumbnail from the
// first page. The scratch dir is removed on every exit path.
func (w *Worker) Convert(ctx context.Context, p *models.Presentation) error {
	src := w.blobs.AbsPath(p.FilePath)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}

	scratch := filepath.Join(w.ScratchRoot, fmt.Sprintf("pres_%d", p.ID))
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := w.renderer.Render(ctx, src, scratch); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	pages, err := pageImages(scratch)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("render produced no page images for presentation %d", p.ID)
	}

	for i, page := range pages {
		data, err := os.ReadFile(page)
		if err != nil {
			return fmt.Errorf("read page %d: %w", i, err)
		}

		rel, err := w.blobs.SaveBytes(data, storage.BucketSlides, fmt.Sprintf("slide_%d_%d.png", i, p.ID))
		if err != nil {
			return fmt.Errorf("store page %d: %w", i, err)
		}
		if _, err := w.store.AppendSlide(p.ID, rel, i); err != nil {
			return fmt.Errorf("persist slide %d: %w", i, err)
		}

		if i == 0 {
			thumbRel, err := w.blobs.SaveBytes(data, storage.BucketThumbnails, fmt.Sprintf("thumb_%d.png", p.ID))
			if err != nil {
				return fmt.Errorf("store thumbnail: %w", err)
			}
			if err := w.store.SetThumbnail(p.ID, thumbRel); err != nil {
				return fmt.Errorf("persist thumbnail: %w", err)
			}
		}
	}
	return nil
}

// pageImages lists exported images ordered by the numeric page index in each
// filename. The engine names pages slide-1.png, slide-2.png, ... so lexical
// order would put slide-10 before slide-2.
func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list export dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return pageIndex(names[i]) < pageIndex(names[j])
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// pageIndex extracts the digits of a filename as one number; names without
// digits sort first.
func pageIndex(name string) int {
	var digits strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
