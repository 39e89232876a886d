package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/RonnyAreUneMi/exposiciones/internal/canva"
	"github.com/RonnyAreUneMi/exposiciones/internal/models"
	"github.com/RonnyAreUneMi/exposiciones/internal/storage"
	"github.com/RonnyAreUneMi/exposiciones/internal/store"
)

const (
	sessionName = "exposiciones_session"

	sessionKeyVerifier     = "canva_code_verifier"
	sessionKeyAccessToken  = "canva_access_token"
	sessionKeyRefreshToken = "canva_refresh_token"
)

// Dispatcher schedules a conversion without blocking the request.
type Dispatcher interface {
	Dispatch(p *models.Presentation)
}

type Handler struct {
	Store       *store.Store
	Storage     storage.Provider
	Canva       *canva.Client
	Worker      Dispatcher
	Sessions    sessions.Store
	Log         *slog.Logger
	RedirectURI string
}

func New(st *store.Store, blobs storage.Provider, client *canva.Client, worker Dispatcher, sessionStore sessions.Store, log *slog.Logger, redirectURI string) *Handler {
	return &Handler{
		Store:       st,
		Storage:     blobs,
		Canva:       client,
		Worker:      worker,
		Sessions:    sessionStore,
		Log:         log,
		RedirectURI: redirectURI,
	}
}

// deckListItem is one local deck on the dashboard.
type deckListItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	CreatedAt string `json:"created_at"`
}

// DashboardHandler lists the demo design catalog next to locally stored
// decks, newest first.
func (h *Handler) DashboardHandler(c echo.Context) error {
	designs, _ := h.Canva.ListDesigns(c.Request().Context(), "")

	presentations, err := h.Store.ListPresentations()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch presentations"})
	}

	items := make([]deckListItem, 0, len(presentations))
	for i := range presentations {
		p := &presentations[i]
		items = append(items, deckListItem{
			ID:        p.LocalID(),
			Title:     p.Title,
			Thumbnail: thumbnailURL(p),
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"canva_designs": designs,
		"presentations": items,
	})
}

// PresentationHandler resolves a local or remote id to the uniform view model.
func (h *Handler) PresentationHandler(c echo.Context) error {
	view, err := h.resolveDesign(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Presentation not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load presentation"})
	}
	return c.JSON(http.StatusOK, view)
}

// UploadHandler saves the deck, creates its record and hands conversion to
// the background worker. The response never waits for conversion.
func (h *Handler) UploadHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file attached"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not open file"})
	}
	defer src.Close()

	relPath, size, err := h.Storage.SaveFile(src, storage.BucketPresentations, file.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save file"})
	}

	p, err := h.Store.CreatePresentation(file.Filename, relPath)
	if err != nil {
		// No record means nothing references the blob; don't orphan it.
		if rmErr := h.Storage.Remove(relPath); rmErr != nil {
			h.Log.Warn("blob removal failed", "path", relPath, "err", rmErr)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save metadata"})
	}

	h.Log.Info("presentation uploaded", "presentation_id", p.ID, "title", p.Title, "size", size)
	h.Worker.Dispatch(p)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"success": true,
		"id":      p.LocalID(),
	})
}

// DeleteHandler removes a deck, its slides and their blobs.
func (h *Handler) DeleteHandler(c echo.Context) error {
	// Accept both the bare pk and the local_<n> form the dashboard hands out.
	id, err := strconv.ParseUint(strings.TrimPrefix(c.Param("id"), localIDPrefix), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Presentation not found"})
	}

	p, err := h.Store.DeletePresentation(uint(id))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Presentation not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete presentation"})
	}

	// Blob removal is best effort; the records are already gone.
	h.removeBlobs(p)

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) removeBlobs(p *models.Presentation) {
	remove := func(rel string) {
		if rel == "" {
			return
		}
		if err := h.Storage.Remove(rel); err != nil {
			h.Log.Warn("blob removal failed", "path", rel, "err", err)
		}
	}
	remove(p.FilePath)
	remove(p.ThumbnailPath)
	for _, s := range p.Slides {
		remove(s.ImagePath)
	}
}

// CanvaLoginHandler starts the OAuth flow: generate the PKCE pair, park the
// verifier in the session and send the browser to the provider.
func (h *Handler) CanvaLoginHandler(c echo.Context) error {
	verifier, challenge, err := canva.GeneratePKCEPair()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start login"})
	}

	sess, _ := h.Sessions.Get(c.Request(), sessionName)
	sess.Values[sessionKeyVerifier] = verifier
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save session"})
	}

	return c.Redirect(http.StatusFound, h.Canva.AuthorizationURL(h.RedirectURI, challenge))
}

// CanvaCallbackHandler finishes the flow. Any missing piece (error param, no
// code, lost verifier) routes back to the dashboard without an exchange; the
// verifier is single-use either way.
func (h *Handler) CanvaCallbackHandler(c echo.Context) error {
	if errParam := c.QueryParam("error"); errParam != "" {
		return h.redirectWithError(c, "Canva error: "+errParam)
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.Redirect(http.StatusFound, "/")
	}

	sess, _ := h.Sessions.Get(c.Request(), sessionName)
	verifier, ok := sess.Values[sessionKeyVerifier].(string)
	if !ok || verifier == "" {
		// Session lost or cookie issue; nothing to exchange against.
		return c.Redirect(http.StatusFound, "/")
	}
	delete(sess.Values, sessionKeyVerifier)

	tokens, err := h.Canva.ExchangeCode(c.Request().Context(), code, verifier, h.RedirectURI)
	if err != nil {
		h.Log.Error("token exchange failed", "err", err)
		sess.Save(c.Request(), c.Response())
		return h.redirectWithError(c, "Error connecting to Canva")
	}
	if tokens.AccessToken == "" {
		sess.Save(c.Request(), c.Response())
		return h.redirectWithError(c, "Could not retrieve Canva token")
	}

	sess.Values[sessionKeyAccessToken] = tokens.AccessToken
	if tokens.RefreshToken != "" {
		sess.Values[sessionKeyRefreshToken] = tokens.RefreshToken
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return h.redirectWithError(c, "Failed to save session")
	}

	return c.Redirect(http.StatusFound, "/canva/dashboard")
}

// CanvaDashboardHandler lists the user's real designs with the session token.
func (h *Handler) CanvaDashboardHandler(c echo.Context) error {
	sess, _ := h.Sessions.Get(c.Request(), sessionName)
	token, ok := sess.Values[sessionKeyAccessToken].(string)
	if !ok || token == "" {
		return c.Redirect(http.StatusFound, "/canva/login")
	}

	designs, failure := h.Canva.ListDesigns(c.Request().Context(), token)
	if failure != nil {
		h.Log.Warn("design listing degraded", "status", failure.StatusCode, "body", failure.Body)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"canva_designs": designs,
	})
}

func (h *Handler) redirectWithError(c echo.Context, msg string) error {
	return c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(msg))
}

func thumbnailURL(p *models.Presentation) string {
	if p.ThumbnailPath == "" {
		return defaultDeckIcon
	}
	return mediaURL(p.ThumbnailPath)
}

func mediaURL(relPath string) string {
	return "/media/" + strings.ReplaceAll(relPath, "\\", "/")
}
