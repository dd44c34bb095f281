package anime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeAnimeRepo struct {
	lastFilters ListFilters
}

func (f *fakeAnimeRepo) GetByID(ctx context.Context, id int64) (*Anime, error) {
	return nil, nil
}

func (f *fakeAnimeRepo) List(ctx context.Context, filters ListFilters) ([]Anime, error) {
	f.lastFilters = filters
	return []Anime{}, nil
}

func (f *fakeAnimeRepo) AddToCollection(ctx context.Context, userID, animeID int64, collection string) (*CollectionEntry, error) {
	return nil, nil
}

func (f *fakeAnimeRepo) RemoveFromCollection(ctx context.Context, userID, animeID int64, collection string) error {
	return nil
}

func (f *fakeAnimeRepo) ListCollection(ctx context.Context, userID int64, collection string) ([]CollectionItem, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyCollectionAdd(ctx context.Context, ownerID, actorID int64, animeTitle, collectionName string) {
}

func newListRouter() (chi.Router, *fakeAnimeRepo) {
	repo := &fakeAnimeRepo{}
	h := NewHandler(NewService(repo, noopNotifier{}))

	r := chi.NewRouter()
	r.Get("/anime", h.List)
	return r, repo
}

func TestList_RejectsMalformedFilters(t *testing.T) {
	router, _ := newListRouter()

	for _, target := range []string{
		"/anime?year=dragon",
		"/anime?limit=many",
		"/anime?offset=1.5",
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body["error"] == "" {
			t.Fatalf("%s: expected an error message", target)
		}
	}
}

func TestList_PassesFiltersThrough(t *testing.T) {
	router, repo := newListRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/anime?q=bebop&genre=Action&year=1998&limit=5&offset=10", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	got := repo.lastFilters
	if got.Query != "bebop" || got.Genre != "Action" || got.Year != 1998 {
		t.Fatalf("unexpected filters: %+v", got)
	}
	if got.Limit != 5 || got.Offset != 10 {
		t.Fatalf("unexpected paging: %+v", got)
	}
}
