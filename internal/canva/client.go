// Package canva talks to the Canva OAuth and design-listing APIs. Without a
// credential it serves a fixed demo catalog so the rest of the app keeps
// working offline.
package canva

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthURL    = "https://www.canva.com/api/oauth/authorize"
	defaultTokenURL   = "https://api.canva.com/rest/v1/oauth/token"
	defaultAPIBaseURL = "https://api.canva.com/rest/v1"

	// Scopes requested during authorization.
	scopes = "design:read design:content:read"
)

// Client is an OAuth PKCE client for the design platform. Endpoint fields
// have production defaults; tests point them at a local server.
type Client struct {
	ClientID     string
	clientSecret string

	AuthURL    string
	TokenURL   string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		clientSecret: clientSecret,
		AuthURL:      defaultAuthURL,
		TokenURL:     defaultTokenURL,
		APIBaseURL:   defaultAPIBaseURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthorizationURL builds the URL the browser is sent to at login.
func (c *Client) AuthorizationURL(redirectURI, codeChallenge string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	q.Set("scope", scopes)
	return c.AuthURL + "?" + q.Encode()
}

// TokenResponse is the provider's token-endpoint payload, success or error.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades the authorization code for tokens. The client secret
// rides only in the Basic auth header; the provider rejects requests that
// also carry it in the form body. No retries: transport failures propagate.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier, redirectURI string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.ClientID)
	form.Set("code", code)
	form.Set("code_verifier", codeVerifier)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	req.SetBasicAuth(c.ClientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("token response: %w", err)
	}
	return &tokens, nil
}

// Design is one entry of the remote design catalog.
type Design struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// ListFailure records a listing call that did not succeed. The catalog
// degrades to empty in that case; callers choose whether to surface it.
type ListFailure struct {
	StatusCode int
	Body       string
}

// ListDesigns fetches the caller's designs with the given bearer token. With
// an empty token it returns the demo catalog. A failed remote call yields an
// empty list plus a ListFailure instead of an error.
func (c *Client) ListDesigns(ctx context.Context, accessToken string) ([]Design, *ListFailure) {
	if accessToken == "" {
		return demoCatalog(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/designs", nil)
	if err != nil {
		return []Design{}, &ListFailure{Body: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return []Design{}, &ListFailure{Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return []Design{}, &ListFailure{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Items []Design `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return []Design{}, &ListFailure{StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if payload.Items == nil {
		return []Design{}, nil
	}
	return payload.Items, nil
}

// DesignDetails returns synthetic details for a remote design. Seam for a
// real details endpoint once the integration needs it.
func (c *Client) DesignDetails(designID string) Design {
	return Design{
		ID:    designID,
		Title: fmt.Sprintf("Presentation %s", designID),
	}
}

// DesignSlides returns synthetic slide image URLs for a remote design. Seam
// for a real export endpoint once the integration needs it.
func (c *Client) DesignSlides(designID string) []string {
	return []string{
		"https://placehold.co/1920x1080/png?text=Slide+1:+Introduction",
		"https://placehold.co/1920x1080/png?text=Slide+2:+Agenda",
		"https://placehold.co/1920x1080/png?text=Slide+3:+Key+Metrics",
		"https://placehold.co/1920x1080/png?text=Slide+4:+Analysis",
		"https://placehold.co/1920x1080/png?text=Slide+5:+Next+Steps",
		"https://placehold.co/1920x1080/png?text=Slide+6:+Q&A",
	}
}

func demoCatalog() []Design {
	return []Design{
		{
			ID:        "design_1",
			Title:     "Q4 Marketing Strategy (Mock)",
			Thumbnail: "https://placehold.co/600x400/png?text=Marketing+Strategy",
		},
		{
			ID:        "design_2",
			Title:     "Product Roadmap 2025 (Mock)",
			Thumbnail: "https://placehold.co/600x400/png?text=Product+Roadmap",
		},
		{
			ID:        "design_3",
			Title:     "Team Onboarding (Mock)",
			Thumbnail: "https://placehold.co/600x400/png?text=Team+Onboarding",
		},
	}
}
