package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
	"github.com/scentsearchapp/scentsearch-server/internal/ratelimit"
	"github.com/scentsearchapp/scentsearch-server/internal/search"
	"github.com/scentsearchapp/scentsearch-server/internal/service"
	"github.com/scentsearchapp/scentsearch-server/internal/store"
)

const testCatalogJSON = `[
	{
		"brand": "dior",
		"name": "Sauvage Elixir",
		"year": "2021",
		"gender": "men",
		"notes": {"top": ["cinnamon"], "base": ["sandalwood"]}
	},
	{
		"brand": "chanel",
		"name": "Coco Mademoiselle",
		"year": "2001",
		"gender": "women",
		"notes": {"base": ["patchouli", "white musk"]}
	},
	{
		"brand": "le-labo",
		"name": "Santal 33",
		"year": "2011",
		"gender": "unisex",
		"notes": {"base": ["sandalwood", "leather"]}
	}
]`

const (
	sauvageID = "dior_sauvage-elixir_2021_0"
	cocoID    = "chanel_coco-mademoiselle_2001_0"
	santalID  = "le-labo_santal-33_2011_0"
)

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	catalogPath := filepath.Join(tmpDir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogJSON), 0o644))

	catalogIndex := catalog.New(catalogPath, logger)
	require.NoError(t, catalogIndex.Load(ctx))

	searchIndex, err := search.NewMemoryIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = searchIndex.Close() })
	require.NoError(t, searchIndex.IndexCatalog(ctx, catalogIndex.Records()))

	st, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	collections := service.NewCollectionService(st, logger)
	reviews, err := service.NewReviewService(ctx, st, logger)
	require.NoError(t, err)
	auth := service.NewAuthService(st, collections, time.Hour, logger)

	limiter := ratelimit.New(1000, 1000)
	t.Cleanup(limiter.Stop)

	return NewServer(catalogIndex, searchIndex, nil, auth, collections, reviews, limiter, logger)
}

func doRequest(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env struct {
		Data    T      `json:"data"`
		Error   string `json:"error"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env.Data
}

// signUp registers a fresh user and returns their session token.
func signUp(t *testing.T, server *Server, email string) string {
	t.Helper()

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{
		Email:    email,
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	auth := decodeData[AuthResponse](t, rec)
	return auth.Token
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeData[map[string]any](t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, true, health["catalog_loaded"])
}

func TestAuthFlow_SignUpLoginLogout(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{
		Email:    "nose@example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[AuthResponse](t, rec)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, domain.DeriveAccountID("nose@example.com"), created.Account.ID)

	// Login issues a separate session for the same account.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    "nose@example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeData[AuthResponse](t, rec)
	assert.Equal(t, created.Account.ID, loggedIn.Account.ID)
	assert.NotEqual(t, created.Token, loggedIn.Token)

	// Logout invalidates the token.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/logout", loggedIn.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/users/me", loggedIn.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SignUpValidation(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{
		Email:    "not-an-email",
		Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{
		Email:    "nose@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_DuplicateSignUpConflicts(t *testing.T) {
	server := setupTestServer(t)
	signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{
		Email:    "nose@example.com",
		Password: "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGuestFlow(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/guest", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	guest := decodeData[AuthResponse](t, rec)
	assert.Equal(t, domain.ProviderGuest, guest.Account.Provider)

	// Guest sessions drive the collection like any other.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/collection", guest.Token, FragranceRefRequest{FragranceID: sauvageID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	server := setupTestServer(t)

	for _, path := range []string{"/api/v1/users/me", "/api/v1/collection", "/api/v1/wishlist", "/api/v1/discovery/queue"} {
		rec := doRequest(t, server, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestGetFragrance(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/fragrances/"+sauvageID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decodeData[FragranceDetail](t, rec)
	assert.Equal(t, "Sauvage Elixir", detail.Name)
	assert.Equal(t, "Dior", detail.DisplayBrand)
	assert.Nil(t, detail.AverageRating)
	assert.Zero(t, detail.ReviewCount)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/fragrances/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBrands(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/brands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"chanel", "dior", "le-labo"}, decodeData[[]string](t, rec))

	rec = doRequest(t, server, http.MethodGet, "/api/v1/brands/chanel/fragrances", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]FragranceView](t, rec), 1)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/brands/ghost/fragrances", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/search?q=santal", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeData[[]FragranceView](t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "Santal 33", results[0].Name)

	// Gender filter narrows results.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/search?q=a&genders=women", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, r := range decodeData[[]FragranceView](t, rec) {
		assert.NotEqual(t, "men", r.Gender)
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v1/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchByNotes(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/search/notes?notes=sandalwood,leather", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeData[[]FragranceView](t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "Santal 33", results[0].Name)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/search/notes", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullTextSearch(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/search/fulltext?q=sauvage", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decodeData[[]search.Hit](t, rec)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Sauvage Elixir", hits[0].Name)
}

func TestCollectionFlow(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	// Wishlist it first.
	rec := doRequest(t, server, http.MethodPost, "/api/v1/wishlist", token, FragranceRefRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[MutationResponse](t, rec).Changed)

	// Buying it moves it from wishlist to collection.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/collection", token, FragranceRefRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeData[MutationResponse](t, rec)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{sauvageID}, result.Profile.Collection)
	assert.Empty(t, result.Profile.Wishlist)

	// Adding again reports no change.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/collection", token, FragranceRefRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[MutationResponse](t, rec).Changed)

	// The collection view resolves catalog records.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/collection", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	collection := decodeData[CollectionResponse](t, rec)
	require.Len(t, collection.Collection.Fragrances, 1)
	assert.Equal(t, "Sauvage Elixir", collection.Collection.Fragrances[0].Name)

	// Remove it again.
	rec = doRequest(t, server, http.MethodDelete, "/api/v1/collection/"+sauvageID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[MutationResponse](t, rec).Changed)
}

func TestCollection_UnknownFragranceRejected(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/collection", token, FragranceRefRequest{FragranceID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTopFiveAndSignature(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	for _, id := range []string{sauvageID, santalID} {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/collection", token, FragranceRefRequest{FragranceID: id})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Top five requires ownership.
	rec := doRequest(t, server, http.MethodPost, "/api/v1/collection/top-five", token, FragranceRefRequest{FragranceID: cocoID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[MutationResponse](t, rec).Changed)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/collection/top-five", token, FragranceRefRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[MutationResponse](t, rec).Changed)

	// Reorder replaces the list wholesale.
	rec = doRequest(t, server, http.MethodPut, "/api/v1/collection/top-five", token, ReorderTopFiveRequest{
		FragranceIDs: []string{santalID, sauvageID},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeData[MutationResponse](t, rec)
	assert.Equal(t, []string{santalID, sauvageID}, result.Profile.TopFive)

	// Signature must be owned.
	rec = doRequest(t, server, http.MethodPut, "/api/v1/collection/signature", token, SignatureRequest{FragranceID: cocoID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[MutationResponse](t, rec).Changed)

	rec = doRequest(t, server, http.MethodPut, "/api/v1/collection/signature", token, SignatureRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeData[MutationResponse](t, rec)
	assert.True(t, result.Changed)
	assert.Equal(t, sauvageID, result.Profile.SignatureScent)

	// Removing the fragrance cascades to top five and signature.
	rec = doRequest(t, server, http.MethodDelete, "/api/v1/collection/"+sauvageID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeData[MutationResponse](t, rec)
	assert.Equal(t, []string{santalID}, result.Profile.TopFive)
	assert.Empty(t, result.Profile.SignatureScent)
}

func TestDiscoveryQueue_ExcludesSeen(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/collection", token, FragranceRefRequest{FragranceID: sauvageID})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, server, http.MethodPost, "/api/v1/discovery/pass", token, FragranceRefRequest{FragranceID: cocoID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/discovery/queue", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decodeData[[]FragranceView](t, rec)
	require.Len(t, queue, 1)
	assert.Equal(t, santalID, queue[0].ID)
}

func TestClearPassedOn_RestoresQueue(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/discovery/pass", token, FragranceRefRequest{FragranceID: cocoID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/discovery/passed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[MutationResponse](t, rec).Changed)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/discovery/queue", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]FragranceView](t, rec), 3)
}

func TestDeleteCurrentUser(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodDelete, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// All sessions are gone with the account.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDiscoveryRandom_Public(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/discovery/random?count=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]FragranceView](t, rec), 2)
}

func TestReviewFlow(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPut, "/api/v1/fragrances/"+sauvageID+"/reviews", token, ReviewRequest{
		Rating: 5,
		Title:  "Incredible",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[*domain.Review](t, rec)
	assert.Equal(t, 5, created.Rating)

	// A second write replaces the review in place.
	rec = doRequest(t, server, http.MethodPut, "/api/v1/fragrances/"+sauvageID+"/reviews", token, ReviewRequest{
		Rating: 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[*domain.Review](t, rec)
	assert.Equal(t, created.ID, updated.ID)

	// Aggregates surface on the fragrance detail.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/fragrances/"+sauvageID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[FragranceDetail](t, rec)
	require.NotNil(t, detail.AverageRating)
	assert.InDelta(t, 4.0, *detail.AverageRating, 0.0001)
	assert.Equal(t, 1, detail.ReviewCount)

	// Listing is public.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/fragrances/"+sauvageID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot delete it.
	otherToken := signUp(t, server, "rival@example.com")
	rec = doRequest(t, server, http.MethodDelete, "/api/v1/reviews/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author can.
	rec = doRequest(t, server, http.MethodDelete, "/api/v1/reviews/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReview_InvalidRatingRejected(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodPut, "/api/v1/fragrances/"+sauvageID+"/reviews", token, ReviewRequest{
		Rating: 9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	server := setupTestServer(t)
	token := signUp(t, server, "nose@example.com")

	rec := doRequest(t, server, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeData[UserResponse](t, rec)
	assert.Equal(t, "nose@example.com", user.Account.Email)
	require.NotNil(t, user.Profile)

	rec = doRequest(t, server, http.MethodPatch, "/api/v1/users/me", token, UpdateUserRequest{DisplayName: "Scent Hound"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeData[*domain.Profile](t, rec)
	assert.Equal(t, "Scent Hound", profile.DisplayName)
}

func TestEnvelopeOnErrors(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/fragrances/ghost", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}
