package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/application/handlers"
	"github.com/ersonp/worldloom/internal/domain/mocks"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*gin.Engine, *mocks.Generator) {
	t.Helper()

	gen := mocks.NewGenerator()
	gen.World = &ports.WorldDescriptor{Name: "Aldermoor", WorldBuilding: "Fens and iron."}
	var race ports.RaceDescriptor
	race.Name = "Fenfolk"
	gen.Races = []ports.RaceDescriptor{race}
	var fa, fb ports.FactionDescriptor
	fa.Name = "Iron Compact"
	fb.Name = "River League"
	gen.Factions = []ports.FactionDescriptor{fa, fb}
	gen.Pact = &ports.PactDescriptor{Name: "The Long Truce", Type: "non-aggression", Description: "d"}
	gen.Locale = &ports.LocaleDescriptor{Name: "Thornwick", Type: "village", Description: "d"}
	gen.Characters = []ports.CharacterDescriptor{
		{Name: "Bram", Role: "owner", Gender: "male", Age: 42, Description: "d", Personality: "p"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := tenant.NewRouter(func(_ context.Context, _ string) (ports.Store, error) {
		return mocks.NewStore(), nil
	})
	t.Cleanup(func() { router.DropAll() })

	basePath := t.TempDir()
	builder := services.NewWorldBuilder(gen, logger)
	pacts := services.NewPactCompleter(gen, logger)
	populator := services.NewPopulator(gen, services.DefaultMatchConfig(), logger)

	srv := NewServer(
		handlers.NewWorldHandler(router, builder, pacts, basePath, logger),
		handlers.NewPopulateHandler(router, populator),
		handlers.NewAdminHandler(router, basePath, logger),
		logger,
	)
	return srv.Router(), gen
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func createWorld(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w, payload := doJSON(t, engine, http.MethodPost, "/worlds/generate", `{"creator": "keeper@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	world, ok := payload["world"].(map[string]any)
	require.True(t, ok)
	id, ok := world["id"].(string)
	require.True(t, ok)
	return id
}

func TestGenerateWorld(t *testing.T) {
	engine, _ := newTestServer(t)

	w, payload := doJSON(t, engine, http.MethodPost, "/worlds/generate", `{"creator": "keeper@example.com"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	world := payload["world"].(map[string]any)
	assert.Equal(t, "Aldermoor", world["name"])
	assert.NotEmpty(t, world["id"])
}

func TestGenerateWorld_MissingCreator(t *testing.T) {
	engine, _ := newTestServer(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/worlds/generate", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWorld(t *testing.T) {
	engine, _ := newTestServer(t)
	id := createWorld(t, engine)

	w, payload := doJSON(t, engine, http.MethodGet, "/worlds/"+id, "")

	require.Equal(t, http.StatusOK, w.Code)
	world := payload["world"].(map[string]any)
	assert.Equal(t, id, world["id"])
}

func TestGetWorld_NotFound(t *testing.T) {
	engine, _ := newTestServer(t)

	w, _ := doJSON(t, engine, http.MethodGet, "/worlds/no_such_world", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWorld_InvalidTenantID(t *testing.T) {
	engine, _ := newTestServer(t)

	w, _ := doJSON(t, engine, http.MethodGet, "/worlds/---", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFillWorld_DefaultCounts(t *testing.T) {
	engine, gen := newTestServer(t)
	id := createWorld(t, engine)

	w, _ := doJSON(t, engine, http.MethodPost, "/worlds/"+id+"/fill", "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, gen.Calls["GenerateRaces"])
	assert.Equal(t, 1, gen.Calls["GenerateFactions"])
	assert.Equal(t, 1, gen.Calls["GeneratePact"], "two factions give one pair")
}

func TestCompletePacts(t *testing.T) {
	engine, _ := newTestServer(t)
	id := createWorld(t, engine)
	w, _ := doJSON(t, engine, http.MethodPost, "/worlds/"+id+"/fill", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, payload := doJSON(t, engine, http.MethodPost, "/worlds/"+id+"/pacts", "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, payload["pacts"], "already complete after fill")
}

func TestGenerateLocale(t *testing.T) {
	engine, _ := newTestServer(t)
	id := createWorld(t, engine)

	body := `{"world_id": "` + id + `", "x": 3, "y": 4, "seed": 42}`
	w, payload := doJSON(t, engine, http.MethodPost, "/locales/generate", body)

	require.Equal(t, http.StatusCreated, w.Code)
	locale := payload["locale"].(map[string]any)
	assert.Equal(t, "Thornwick", locale["name"])

	// The same coordinates return the existing locale without regenerating.
	w, _ = doJSON(t, engine, http.MethodPost, "/locales/generate", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateLocale_ZeroCoordinates(t *testing.T) {
	engine, _ := newTestServer(t)
	id := createWorld(t, engine)

	// (0,0) is a valid coordinate, not a missing field.
	body := `{"world_id": "` + id + `", "x": 0, "y": 0, "seed": 1}`
	w, _ := doJSON(t, engine, http.MethodPost, "/locales/generate", body)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGenerateLocale_MissingCoordinates(t *testing.T) {
	engine, _ := newTestServer(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/locales/generate", `{"world_id": "w1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLocale(t *testing.T) {
	engine, _ := newTestServer(t)
	id := createWorld(t, engine)

	body := `{"world_id": "` + id + `", "x": 1, "y": 2, "seed": 7}`
	w, _ := doJSON(t, engine, http.MethodPost, "/locales/generate", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, payload := doJSON(t, engine, http.MethodGet, "/locales?world_id="+id+"&x=1&y=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	locale := payload["locale"].(map[string]any)
	assert.Equal(t, "Thornwick", locale["name"])

	w, _ = doJSON(t, engine, http.MethodGet, "/locales?world_id="+id+"&x=9&y=9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDumpAll(t *testing.T) {
	engine, _ := newTestServer(t)
	createWorld(t, engine)

	w, payload := doJSON(t, engine, http.MethodDelete, "/admin/dump", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), payload["dropped"])
}
