package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/hops"
	"github.com/dom/hops-games/internal/repository"
)

// StubLinks answers link checks from a fixed table keyed "from-to".
type StubLinks struct {
	Results map[string]hops.LinkResult
	Default hops.LinkResult

	mu      sync.Mutex
	checked []string
}

func NewStubLinks(def hops.LinkResult) *StubLinks {
	return &StubLinks{Results: map[string]hops.LinkResult{}, Default: def}
}

func (s *StubLinks) Link(from, to string, result hops.LinkResult) *StubLinks {
	s.Results[from+"-"+to] = result
	return s
}

func (s *StubLinks) Check(ctx context.Context, from, to string) hops.LinkResult {
	key := from + "-" + to

	s.mu.Lock()
	s.checked = append(s.checked, key)
	s.mu.Unlock()

	if r, ok := s.Results[key]; ok {
		return r
	}
	return s.Default
}

// Checked returns the pairs asked about, sorted.
func (s *StubLinks) Checked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]string(nil), s.checked...)
	sort.Strings(out)
	return out
}

// CountingGameRepository wraps a repository and counts calls per method.
type CountingGameRepository struct {
	repository.GameRepository

	// FailUpdate, when set, is returned by Update instead of writing.
	FailUpdate error

	mu    sync.Mutex
	calls map[string]int
}

func NewCountingGameRepository(inner repository.GameRepository) *CountingGameRepository {
	return &CountingGameRepository{GameRepository: inner, calls: map[string]int{}}
}

func (r *CountingGameRepository) count(method string) {
	r.mu.Lock()
	r.calls[method]++
	r.mu.Unlock()
}

func (r *CountingGameRepository) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func (r *CountingGameRepository) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

func (r *CountingGameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	r.count("GetByID")
	return r.GameRepository.GetByID(ctx, id)
}

func (r *CountingGameRepository) GetByWordsKey(ctx context.Context, wordsKey string) (*domain.Game, error) {
	r.count("GetByWordsKey")
	return r.GameRepository.GetByWordsKey(ctx, wordsKey)
}

func (r *CountingGameRepository) Scan(ctx context.Context, filter repository.GameFilter) ([]*domain.Game, error) {
	r.count("Scan")
	return r.GameRepository.Scan(ctx, filter)
}

func (r *CountingGameRepository) ListByPublishMonth(ctx context.Context, month string) ([]*domain.Game, error) {
	r.count("ListByPublishMonth")
	return r.GameRepository.ListByPublishMonth(ctx, month)
}

func (r *CountingGameRepository) ListUnscheduledReady(ctx context.Context) ([]*domain.Game, error) {
	r.count("ListUnscheduledReady")
	return r.GameRepository.ListUnscheduledReady(ctx)
}

func (r *CountingGameRepository) LatestPublished(ctx context.Context) (*domain.Game, error) {
	r.count("LatestPublished")
	return r.GameRepository.LatestPublished(ctx)
}

func (r *CountingGameRepository) Create(ctx context.Context, game *domain.Game) error {
	r.count("Create")
	return r.GameRepository.Create(ctx, game)
}

func (r *CountingGameRepository) Update(ctx context.Context, id string, upd domain.GameUpdate) (*domain.Game, error) {
	r.count("Update")
	if r.FailUpdate != nil {
		return nil, r.FailUpdate
	}
	return r.GameRepository.Update(ctx, id, upd)
}

func (r *CountingGameRepository) UpdateIfOwners(ctx context.Context, id, expectedOwnerIDs string, upd domain.GameUpdate) (*domain.Game, error) {
	r.count("UpdateIfOwners")
	return r.GameRepository.UpdateIfOwners(ctx, id, expectedOwnerIDs, upd)
}

// HopsServer fakes the words service link endpoint.
type HopsServer struct {
	server *httptest.Server
	linked map[string]bool

	mu     sync.Mutex
	secret string
}

// NewHopsServer answers 200 for the given "from-to" pairs and 404 otherwise.
func NewHopsServer(t *testing.T, linkedPairs ...string) *HopsServer {
	t.Helper()

	h := &HopsServer{linked: map[string]bool{}}
	for _, p := range linkedPairs {
		h.linked[p] = true
	}

	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.WordPair
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		h.mu.Lock()
		h.secret = r.Header.Get(TestSecretHeader)
		h.mu.Unlock()

		if h.linked[req.String()] {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "Not linked", http.StatusNotFound)
	}))
	t.Cleanup(h.server.Close)

	return h
}

func (h *HopsServer) URL() string {
	return h.server.URL
}

// LastSecret returns the shared-secret header seen on the latest request.
func (h *HopsServer) LastSecret() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.secret
}
