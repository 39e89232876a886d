package handlers

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/RonnyAreUneMi/exposiciones/internal/store"
)

const (
	localIDPrefix   = "local_"
	defaultDeckIcon = "/static/img/pptx-icon.png"
)

// DesignView is the uniform payload for a deck, local or remote. The view
// layer never needs to know which path produced it.
type DesignView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Slides    []string `json:"slides"`
}

// resolveDesign assembles the view model for an identifier. Local decks with
// no slides yet get a single "processing" frame so the viewer never shows an
// empty deck.
func (h *Handler) resolveDesign(ctx context.Context, id string) (*DesignView, error) {
	if !strings.HasPrefix(id, localIDPrefix) {
		d := h.Canva.DesignDetails(id)
		return &DesignView{
			ID:        d.ID,
			Title:     d.Title,
			Thumbnail: d.Thumbnail,
			Slides:    h.Canva.DesignSlides(id),
		}, nil
	}

	pk, err := strconv.ParseUint(strings.TrimPrefix(id, localIDPrefix), 10, 32)
	if err != nil {
		return nil, store.ErrNotFound
	}
	p, err := h.Store.GetPresentation(uint(pk))
	if err != nil {
		return nil, err
	}

	view := &DesignView{
		ID:        id,
		Title:     p.Title,
		Thumbnail: thumbnailURL(p),
	}
	if len(p.Slides) == 0 {
		view.Slides = []string{processingFrameURL(p.Title)}
		return view, nil
	}
	for _, s := range p.Slides {
		view.Slides = append(view.Slides, mediaURL(s.ImagePath))
	}
	return view, nil
}

func processingFrameURL(title string) string {
	return "https://placehold.co/1920x1080/0f172a/ffffff.png?text=" + url.QueryEscape("Processing: "+title)
}
