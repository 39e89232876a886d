package canva

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationURL(t *testing.T) {
	c := NewClient("client-1", "secret-1")

	raw := c.AuthorizationURL("http://localhost:8000/canva/callback", "challenge-xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.canva.com", u.Host)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8000/canva/callback", q.Get("redirect_uri"))
	assert.Equal(t, "challenge-xyz", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "design:read design:content:read", q.Get("scope"))
}

func TestExchangeCode_RequestShape(t *testing.T) {
	var gotForm url.Values
	var gotUser, gotPass string
	var gotBasic bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotBasic = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	c := NewClient("client-1", "secret-1")
	c.TokenURL = srv.URL

	tokens, err := c.ExchangeCode(context.Background(), "code-1", "verifier-1", "http://localhost:8000/canva/callback")
	require.NoError(t, err)

	assert.True(t, gotBasic)
	assert.Equal(t, "client-1", gotUser)
	assert.Equal(t, "secret-1", gotPass)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "client-1", gotForm.Get("client_id"))
	assert.Equal(t, "code-1", gotForm.Get("code"))
	assert.Equal(t, "verifier-1", gotForm.Get("code_verifier"))
	assert.Equal(t, "http://localhost:8000/canva/callback", gotForm.Get("redirect_uri"))
	// Secret must only travel in the Basic header.
	assert.Empty(t, gotForm.Get("client_secret"))

	assert.Equal(t, "at-1", tokens.AccessToken)
	assert.Equal(t, "rt-1", tokens.RefreshToken)
}

func TestExchangeCode_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer srv.Close()

	c := NewClient("client-1", "secret-1")
	c.TokenURL = srv.URL

	tokens, err := c.ExchangeCode(context.Background(), "stale", "verifier-1", "http://localhost:8000/canva/callback")
	require.NoError(t, err)

	assert.Empty(t, tokens.AccessToken)
	assert.Equal(t, "invalid_grant", tokens.Error)
}

func TestExchangeCode_TransportFailure(t *testing.T) {
	c := NewClient("client-1", "secret-1")
	c.TokenURL = "http://127.0.0.1:1/token" // nothing listens here

	_, err := c.ExchangeCode(context.Background(), "code-1", "verifier-1", "http://localhost:8000/canva/callback")
	require.Error(t, err)
}

func TestListDesigns_NoToken_ReturnsDemoCatalog(t *testing.T) {
	c := NewClient("client-1", "secret-1")

	designs, failure := c.ListDesigns(context.Background(), "")

	require.Nil(t, failure)
	require.Len(t, designs, 3)
	assert.Equal(t, "design_1", designs[0].ID)
	assert.Equal(t, "design_2", designs[1].ID)
	assert.Equal(t, "design_3", designs[2].ID)
}

func TestListDesigns_WithToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/designs", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"d1","title":"Deck One","thumbnail":"https://cdn.example/d1.png"}]}`))
	}))
	defer srv.Close()

	c := NewClient("client-1", "secret-1")
	c.APIBaseURL = srv.URL

	designs, failure := c.ListDesigns(context.Background(), "tok-1")

	require.Nil(t, failure)
	require.Len(t, designs, 1)
	assert.Equal(t, "d1", designs[0].ID)
	assert.Equal(t, "Deck One", designs[0].Title)
}

func TestListDesigns_NonOKStatus_DegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient scope"}`))
	}))
	defer srv.Close()

	c := NewClient("client-1", "secret-1")
	c.APIBaseURL = srv.URL

	designs, failure := c.ListDesigns(context.Background(), "tok-1")

	assert.Empty(t, designs)
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusForbidden, failure.StatusCode)
	assert.Contains(t, failure.Body, "insufficient scope")
}

func TestDesignSeams(t *testing.T) {
	c := NewClient("client-1", "secret-1")

	d := c.DesignDetails("design_7")
	assert.Equal(t, "design_7", d.ID)
	assert.Equal(t, "Presentation design_7", d.Title)

	slides := c.DesignSlides("design_7")
	assert.Len(t, slides, 6)
}
