package trailer

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildQueriesMovie(t *testing.T) {
	got := BuildQueries("Dincolo de bine", "Beyond Good", "2022", KindMovie, 0)
	want := []string{
		"Beyond Good 2022 official trailer",
		"Beyond Good 2022 movie trailer",
		"Beyond Good official trailer",
		"Dincolo de bine 2022 official trailer",
		"Dincolo de bine trailer",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQueries = %#v, want %#v", got, want)
	}
}

func TestBuildQueriesShowNoYear(t *testing.T) {
	got := BuildQueries("", "The Show", "", KindShow, 0)
	want := []string{"The Show official trailer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQueries = %#v, want %#v", got, want)
	}
}

func TestBuildQueriesShowWithYear(t *testing.T) {
	got := BuildQueries("", "The Show", "2019", KindShow, 0)
	want := []string{
		"The Show 2019 official trailer",
		"The Show 2019 tv series trailer",
		"The Show official trailer",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQueries = %#v, want %#v", got, want)
	}
}

func TestBuildQueriesSeason(t *testing.T) {
	got := BuildQueries("Seria Orig", "The Show", "2019", KindShow, 3)
	want := []string{
		"Seria Orig season 3 official trailer",
		"The Show season 3 official trailer",
		"The Show season 3 2019 trailer",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQueries = %#v, want %#v", got, want)
	}
}

func TestBuildQueriesSeasonSameTitles(t *testing.T) {
	got := BuildQueries("The Show", "The Show", "", KindShow, 2)
	want := []string{"The Show season 2 official trailer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQueries = %#v, want %#v", got, want)
	}
}

func TestBuildQueriesStripColons(t *testing.T) {
	queries := BuildQueries("Underworld: Evoluția", "Underworld: Evolution", "2006", KindMovie, 0)
	if len(queries) == 0 {
		t.Fatal("expected queries")
	}
	for _, q := range queries {
		if strings.Contains(q, ":") {
			t.Errorf("query contains colon: %q", q)
		}
	}
	if queries[0] != "Underworld Evolution 2006 official trailer" {
		t.Errorf("first query = %q", queries[0])
	}
}
