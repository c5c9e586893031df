package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	client, err := New("test-key", "ro-RO", WithBaseURL(server.URL), WithCache(cache))
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestMovieByIDLocalizedFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rec := Record{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"}
		if r.URL.Query().Get("language") == "ro-RO" {
			// Non-Latin localized title must be discarded.
			rec.Title = "Матрица"
		}
		json.NewEncoder(w).Encode(rec)
	})

	en, loc, err := client.MovieByID(context.Background(), 603)
	if err != nil {
		t.Fatal(err)
	}
	if en.Title != "The Matrix" {
		t.Errorf("en title = %q", en.Title)
	}
	if loc.Title != "The Matrix" {
		t.Errorf("non-Latin localized title must fall back to primary, got %q", loc.Title)
	}
}

func TestSearchMovieValidatesAndLocalizes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := searchResponse{Results: []Record{
			{ID: 1, Title: "Dune Part Two", ReleaseDate: "2024-02-01"},
			{ID: 2, Title: "Dune", ReleaseDate: "2021-10-01"},
		}}
		if r.URL.Query().Get("language") == "ro-RO" {
			resp.Results = []Record{{ID: 2, Title: "Dune (RO)", ReleaseDate: "2021-10-01"}}
		}
		json.NewEncoder(w).Encode(resp)
	})

	en, loc, conf, err := client.SearchMovie(context.Background(), "Dune", "2021")
	if err != nil {
		t.Fatal(err)
	}
	if en.ID != 2 {
		t.Errorf("validated match picked ID %d, want 2", en.ID)
	}
	if conf != MatchValidated {
		t.Errorf("confidence = %v", conf)
	}
	if loc.Title != "Dune (RO)" {
		t.Errorf("localized record not matched by ID, got %q", loc.Title)
	}
}

func TestSearchMovieCached(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(searchResponse{Results: []Record{
			{ID: 1, Title: "Solo Movie", ReleaseDate: "2020-01-01"},
		}})
	})

	ctx := context.Background()
	if _, _, _, err := client.SearchMovie(ctx, "Solo Movie", "2020"); err != nil {
		t.Fatal(err)
	}
	first := calls
	if _, _, _, err := client.SearchMovie(ctx, "Solo Movie", "2020"); err != nil {
		t.Fatal(err)
	}
	if calls != first {
		t.Errorf("second lookup hit the network (%d calls, want %d)", calls, first)
	}
}

func TestEpisodeInfoGenericNameFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ep := Episode{Name: "The Real Title", SeasonNumber: 2, EpisodeNumber: 3, AirDate: "2020-05-01"}
		if r.URL.Query().Get("language") == "ro-RO" {
			ep.Name = "Episodul 3"
		}
		json.NewEncoder(w).Encode(ep)
	})

	ep, err := client.EpisodeInfo(context.Background(), 100, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ep.Name != "The Real Title" {
		t.Errorf("generic localized name must fall back to primary, got %q", ep.Name)
	}
}
