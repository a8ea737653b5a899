package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"bolao/internal/cache"
	"bolao/internal/counters"
	"bolao/internal/landing"
	"bolao/internal/models"
	"bolao/internal/poolservice"
	"bolao/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu         sync.Mutex
	users      int64
	pools      int64
	guesses    int64
	failCreate bool
	titles     []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users/count":
		_ = json.NewEncoder(w).Encode(map[string]int64{"users": b.users})
	case r.Method == http.MethodGet && r.URL.Path == "/pools/count":
		_ = json.NewEncoder(w).Encode(map[string]int64{"pools": b.pools})
	case r.Method == http.MethodGet && r.URL.Path == "/guesses/count":
		_ = json.NewEncoder(w).Encode(map[string]int64{"guesses": b.guesses})
	case r.Method == http.MethodPost && r.URL.Path == "/pools":
		if b.failCreate {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var body models.PoolCreationRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.titles = append(b.titles, body.Title)
		b.pools++
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "ABC123"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) createdTitles() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.titles...)
}

func newTestRouter(t *testing.T, backend *fakeBackend, formRateLimit int) http.Handler {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := poolservice.NewClient(models.BackendConfiguration{BaseURL: server.URL, TimeoutSeconds: 5})
	aggregator := counters.NewAggregator(client)
	memory := cache.NewMemoryCache()
	snapshots := landing.NewSnapshotStore(memory, aggregator, 24*time.Hour, "test-instance")

	renderer, err := landing.NewRenderer(web.Assets)
	require.NoError(t, err)

	return LandingService{
		Controller:        landing.NewController(client, aggregator, snapshots),
		Renderer:          renderer,
		Cache:             memory,
		FormRateLimit:     formRateLimit,
		CountersRateLimit: 60,
	}.Routes()
}

func postTitle(router http.Handler, title string) *httptest.ResponseRecorder {
	form := url.Values{"title": {title}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLandingService_ShowPage(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	body := recorder.Body.String()
	assert.Contains(t, body, `<span data-counter="users">10</span>`)
	assert.Contains(t, body, `<span data-counter="pools">2</span>`)
	assert.Contains(t, body, `<span data-counter="guesses">5</span>`)
}

func TestLandingService_ShowPageUsesCachedSnapshot(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	backend.mu.Lock()
	backend.users = 999
	backend.mu.Unlock()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, recorder.Body.String(), `<span data-counter="users">10</span>`)
}

func TestLandingService_SubmitPool(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	recorder := postTitle(router, "Copa 2022")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"Copa 2022"}, backend.createdTitles())

	body := recorder.Body.String()
	assert.Contains(t, body, `navigator.clipboard.writeText("ABC123")`)
	assert.Contains(t, body, "Copa 2022 criado com sucesso")
	assert.Contains(t, body, `<span data-counter="pools">3</span>`, "counters are refreshed after creation")
	assert.NotContains(t, body, `value="Copa 2022"`, "input is cleared")
	assert.Contains(t, body, `data-title="Copa 2022"`, "the title can be restored if the clipboard rejects the code")
}

func TestLandingService_SubmitPoolBackendFailure(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5, failCreate: true}
	router := newTestRouter(t, backend, 30)

	recorder := postTitle(router, "Copa 2022")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.NotContains(t, body, "navigator.clipboard")
	assert.Contains(t, body, `value="Copa 2022"`, "input keeps its value")
}

func TestLandingService_SubmitPoolEmptyTitle(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	recorder := postTitle(router, "   ")

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `aria-invalid="true"`)
	assert.Empty(t, backend.createdTitles(), "empty titles never reach the backend")
}

func TestLandingService_SubmitPoolRateLimited(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 1)

	assert.Equal(t, http.StatusOK, postTitle(router, "Copa 2022").Code)

	recorder := postTitle(router, "Copa 2026")

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))

	body := recorder.Body.String()
	assert.Contains(t, body, `value="Copa 2026"`, "input keeps its value")
	assert.Contains(t, body, "Muitas tentativas. Tente novamente em")
	assert.Contains(t, body, `<span data-counter="users">10</span>`)
	assert.NotContains(t, body, "TOO_MANY_REQUESTS")
	assert.NotContains(t, body, "navigator.clipboard")
	assert.Equal(t, []string{"Copa 2022"}, backend.createdTitles())
}

func TestLandingService_SubmitPoolUnreadableForm(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	recorder := postTitle(router, strings.Repeat("a", 8<<10))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "Não foi possível ler o formulário")
	assert.Empty(t, backend.createdTitles())
}

func TestLandingService_GetCounters(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	backend.mu.Lock()
	backend.users = 11
	backend.mu.Unlock()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/counters", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var snapshot models.CounterSnapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	assert.Equal(t, models.CounterSnapshot{Users: 11, Pools: 2, Guesses: 5}, snapshot)
}

func TestLandingService_GetCountersRateLimited(t *testing.T) {
	backend := &fakeBackend{users: 10, pools: 2, guesses: 5}
	router := newTestRouter(t, backend, 30)

	var last *httptest.ResponseRecorder
	for range 61 {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/counters", nil))
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.JSONEq(t, `{"status":429,"error":["TOO_MANY_REQUESTS"]}`, last.Body.String())
}
