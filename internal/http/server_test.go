package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"viralhub-backend-go/internal/config"
	"viralhub-backend-go/internal/llm"
	"viralhub-backend-go/internal/models"
	"viralhub-backend-go/internal/services"
	"viralhub-backend-go/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	output string
	err    error
	calls  []llm.ChatRequest
}

func (p *stubProvider) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	p.calls = append(p.calls, req)
	return p.output, p.err
}

func newTestServer(t *testing.T, provider llm.Provider, cfg config.Config) (http.Handler, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	_, err := store.UpsertUser(context.Background(), models.UserProfile{ID: services.DemoUserID})
	require.NoError(t, err)
	if cfg.StaticDir == "" {
		cfg.StaticDir = t.TempDir()
	}
	server := NewServer(store, provider, cfg, nil)
	return server.Router(), store
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestRunUnknownAssistantIsNotFound(t *testing.T) {
	provider := &stubProvider{output: "unused"}
	h, _ := newTestServer(t, provider, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/assistants/run", `{"assistantId":999999,"input":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Asistente no encontrado", body.Message)
	assert.Empty(t, provider.calls)
}

func TestRunRejectsMissingArguments(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})
	for _, body := range []string{
		``,
		`{}`,
		`{"assistantId":1}`,
		`{"input":"hola"}`,
		`{"assistantId":0,"input":"hola"}`,
		`{"assistantId":"abc","input":"hola"}`,
		`{"assistantId":1,"input":""}`,
		`{"assistantId":1.5,"input":"hola"}`,
		`not json`,
	} {
		rec := do(t, h, http.MethodPost, "/api/assistants/run", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "assistantId e input son obligatorios", resp.Message, body)
	}
}

func TestCreateAssistantAppliesDefaults(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/assistants", `{"name":"X","role":"Y","systemPrompt":"Z","extra":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Assistant
	decodeBody(t, rec, &created)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.Temperature)
	assert.Equal(t, 0.7, *created.Temperature)
	require.NotNil(t, created.Active)
	assert.True(t, *created.Active)
	require.NotNil(t, created.UserID)
	assert.Equal(t, services.DemoUserID, *created.UserID)

	rec = do(t, h, http.MethodGet, "/api/assistants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Assistant
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateAssistantReportsInvalidFields(t *testing.T) {
	h, store := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/assistants", `{"name":"X","temperature":"hot"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ValidationErrorResponse
	decodeBody(t, rec, &body)
	fields := make([]string, 0, len(body.Fields))
	for _, f := range body.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"role", "systemPrompt", "temperature"}, fields)

	count, err := store.CountUserAssistants(context.Background(), services.DemoUserID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeedThenRunInMockMode(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var first services.SeedResult
	decodeBody(t, rec, &first)
	assert.Equal(t, "Seed completado correctamente", first.Message)
	assert.Equal(t, 6, first.Count)

	rec = do(t, h, http.MethodPost, "/api/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second services.SeedResult
	decodeBody(t, rec, &second)
	assert.Equal(t, "Ya existen asistentes", second.Message)
	assert.Equal(t, 6, second.Count)

	rec = do(t, h, http.MethodGet, "/api/assistants", "")
	var listed []models.Assistant
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 6)
	assert.Equal(t, "Asistente J", listed[0].Name)

	body := `{"assistantId":` + jsonInt(listed[0].ID) + `,"input":"hola"}`
	rec = do(t, h, http.MethodPost, "/api/assistants/run", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var run map[string]any
	decodeBody(t, rec, &run)
	assert.Equal(t, float64(listed[0].ID), run["assistantId"])
	assert.Equal(t, `Mock response from assistant "Asistente J" with input: hola`, run["output"])
	assert.Equal(t, true, run["mock"])

	stringID := `{"assistantId":"` + jsonInt(listed[0].ID) + `","input":"hola"}`
	rec = do(t, h, http.MethodPost, "/api/assistants/run", stringID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunWithProvider(t *testing.T) {
	provider := &stubProvider{output: "respuesta"}
	h, store := newTestServer(t, provider, config.Config{})
	temperature := 0.2
	assistant, err := store.CreateAssistant(context.Background(), models.NewAssistant{
		UserID: services.DemoUserID, Name: "Copy", Role: "Writer", SystemPrompt: "Escribe anuncios.", Temperature: &temperature,
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/assistants/run", `{"assistantId":`+jsonInt(assistant.ID)+`,"input":"zapatillas"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var run map[string]any
	decodeBody(t, rec, &run)
	assert.Equal(t, "respuesta", run["output"])
	_, hasMock := run["mock"]
	assert.False(t, hasMock)

	require.Len(t, provider.calls, 1)
	assert.Equal(t, "Escribe anuncios.", provider.calls[0].SystemPrompt)
	assert.Equal(t, "zapatillas", provider.calls[0].Input)
	assert.Equal(t, 0.2, provider.calls[0].Temperature)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `viralhub_assistant_runs_total{outcome="ok"} 1`)
}

func TestRunSurfacesProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	h, store := newTestServer(t, provider, config.Config{})
	assistant, err := store.CreateAssistant(context.Background(), models.NewAssistant{
		UserID: services.DemoUserID, Name: "Copy", Role: "Writer", SystemPrompt: "p",
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/assistants/run", `{"assistantId":`+jsonInt(assistant.ID)+`,"input":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body GenerationErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Error ejecutando asistente", body.Message)
	assert.Equal(t, "rate limited", body.Error)
	assert.Len(t, provider.calls, 1)
}

func TestProducts(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/products", `{"name":"Lamp","description":"d","price":"9.99","imageUrl":"https://img.example.com/l.png","tags":["home","led"],"rating":4.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Product
	decodeBody(t, rec, &created)
	assert.Equal(t, []string{"home", "led"}, []string(created.Tags))
	require.NotNil(t, created.Trending)
	assert.False(t, *created.Trending)

	rec = do(t, h, http.MethodGet, "/api/products/"+jsonInt(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Product
	decodeBody(t, rec, &fetched)
	assert.Equal(t, "Lamp", fetched.Name)

	rec = do(t, h, http.MethodGet, "/api/products/999999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products", `{"name":"Lamp"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, target := range []string{"/api/products", "/api/products/mine", "/api/products?limit=1", "/api/products?limit=garbage"} {
		rec = do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		var items []models.Product
		decodeBody(t, rec, &items)
		assert.Len(t, items, 1, target)
	}
}

func TestCreateContent(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/contents", `{"title":"T","description":"D","music":"M","animation":"A","cta":"Compra"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Content
	decodeBody(t, rec, &created)
	assert.Equal(t, "Compra", created.CTA)
	assert.Nil(t, created.ProductID)

	rec = do(t, h, http.MethodPost, "/api/contents", `{"title":"T","description":"D","music":"M","animation":"A","cta":"C","productId":424242}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Error creando contenido", body.Message)
}

func TestUsersMe(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})

	rec := do(t, h, http.MethodGet, "/api/users/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	decodeBody(t, rec, &user)
	assert.Equal(t, services.DemoUserID, user.ID)

	rec = do(t, h, http.MethodPut, "/api/users/me", `{"firstName":"Ana","email":"ana@example.com","id":"someone-else"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &user)
	assert.Equal(t, services.DemoUserID, user.ID)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Ana", *user.FirstName)

	rec = do(t, h, http.MethodPut, "/api/users/me", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenIdentity(t *testing.T) {
	cfg := config.Config{JWTSecret: "s3cret", JWTIssuer: "viralhub"}
	h, _ := newTestServer(t, nil, cfg)
	tokens := services.TokenService{Secret: []byte("s3cret"), Issuer: "viralhub", AccessTTL: time.Minute}
	signed, _, err := tokens.CreateAccessToken("user-9")
	require.NoError(t, err)
	bearer := "Bearer " + signed

	rec := do(t, h, http.MethodGet, "/api/users/me", "", "Authorization", bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/users/me", `{"firstName":"Nueve"}`, "Authorization", bearer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user models.User
	decodeBody(t, rec, &user)
	assert.Equal(t, "user-9", user.ID)

	rec = do(t, h, http.MethodGet, "/api/users/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &user)
	assert.Equal(t, services.DemoUserID, user.ID)

	for _, header := range []string{"Bearer not-a-token", "Basic dXNlcjpwYXNz"} {
		rec = do(t, h, http.MethodGet, "/api/assistants", "", "Authorization", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		var body ErrorResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "Authentication failed", body.Message)
	}
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})
	rec := do(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})
	rec := do(t, h, http.MethodGet, "/api/assistants", "", "X-Request-Id", "req-123")
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = do(t, h, http.MethodGet, "/api/assistants", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, nil, config.Config{})
	rec := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report services.HealthReport
	decodeBody(t, rec, &report)
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "up", report.Database)
	assert.True(t, report.MockMode)
}

func TestStaticFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	h, _ := newTestServer(t, nil, config.Config{StaticDir: dir})

	rec := do(t, h, http.MethodGet, "/assets/app.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	for _, target := range []string{"/", "/dashboard/assistants"} {
		rec = do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "<html>app</html>", rec.Body.String(), target)
	}
}

func jsonInt(v int64) string {
	out, _ := json.Marshal(v)
	return string(out)
}

type unreachableAssistantStore struct {
	storage.Gateway
}

func (unreachableAssistantStore) GetAssistant(context.Context, int64) (models.Assistant, bool, error) {
	return models.Assistant{}, false, &storage.StorageError{Op: "get assistant", Err: errors.New("connection refused")}
}

func TestRunSurfacesStorageFailure(t *testing.T) {
	store := storage.NewMemory()
	server := NewServer(unreachableAssistantStore{Gateway: store}, nil, config.Config{StaticDir: t.TempDir()}, nil)

	rec := do(t, server.Router(), http.MethodPost, "/api/assistants/run", `{"assistantId":1,"input":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body GenerationErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Error ejecutando asistente", body.Message)
	assert.Contains(t, body.Error, "connection refused")
}

func TestIDsBeyondSerialRange(t *testing.T) {
	provider := &stubProvider{output: "unused"}
	h, _ := newTestServer(t, provider, config.Config{})

	rec := do(t, h, http.MethodPost, "/api/assistants/run", `{"assistantId":3000000000,"input":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Asistente no encontrado", body.Message)
	assert.Empty(t, provider.calls)

	rec = do(t, h, http.MethodGet, "/api/products/3000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products", `{"name":"Lamp","description":"d","price":"1","imageUrl":"https://img.example.com/l.png","reviews":3000000000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid ValidationErrorResponse
	decodeBody(t, rec, &invalid)
	require.Len(t, invalid.Fields, 1)
	assert.Equal(t, "reviews", invalid.Fields[0].Field)

	rec = do(t, h, http.MethodPost, "/api/contents", `{"title":"T","description":"D","music":"M","animation":"A","cta":"C","productId":3000000000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decodeBody(t, rec, &invalid)
	require.Len(t, invalid.Fields, 1)
	assert.Equal(t, "productId", invalid.Fields[0].Field)
}

func TestParseAssistantIDRejectsOverflow(t *testing.T) {
	_, ok := parseAssistantID(json.Number("9223372036854775808"))
	assert.False(t, ok)
	_, ok = parseAssistantID(math.Ldexp(1, 63))
	assert.False(t, ok)

	id, ok := parseAssistantID(json.Number("42"))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
