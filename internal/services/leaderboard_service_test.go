package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"codeclub/clubhouse/internal/models/dtos"
)

func TestRank_OrdersByPointsDescending(t *testing.T) {
	members := []dtos.Member{
		{ID: "m-1", Name: "Alice", Points: 50},
		{ID: "m-2", Name: "Bob", Points: 120},
		{ID: "m-3", Name: "Cara", Points: 80},
	}

	ranked := Rank(members)
	wantOrder := []string{"m-2", "m-3", "m-1"}
	for i, want := range wantOrder {
		if ranked[i].Member.ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, ranked[i].Member.ID)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("Expected 1-based rank %d, got %d", i+1, ranked[i].Rank)
		}
	}
}

func TestRank_TieBreaksByMemberID(t *testing.T) {
	members := []dtos.Member{
		{ID: "m-9", Points: 100},
		{ID: "m-2", Points: 100},
		{ID: "m-5", Points: 100},
	}

	ranked := Rank(members)
	wantOrder := []string{"m-2", "m-5", "m-9"}
	for i, want := range wantOrder {
		if ranked[i].Member.ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, ranked[i].Member.ID)
		}
	}
}

func TestRank_IsIdempotent(t *testing.T) {
	members := []dtos.Member{
		{ID: "m-3", Points: 10},
		{ID: "m-1", Points: 10},
		{ID: "m-2", Points: 99},
	}

	first := Rank(members)
	second := Rank(members)
	if !reflect.DeepEqual(first, second) {
		t.Error("Ranking the same input twice must yield identical output")
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	members := []dtos.Member{
		{ID: "m-1", Points: 1},
		{ID: "m-2", Points: 2},
	}
	Rank(members)
	if members[0].ID != "m-1" {
		t.Error("Rank must not reorder its input")
	}
}

func TestLeaderboardService_Top(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaderboard" {
			t.Errorf("Expected /leaderboard, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]dtos.Member{
			{ID: "m-1", Points: 30},
			{ID: "m-2", Points: 90},
			{ID: "m-3", Points: 60},
		})
	}))
	defer server.Close()

	svc := NewLeaderboardService(newTestProvider(server.URL))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected load, got %v", err)
	}

	top := svc.Top(2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].Member.ID != "m-2" || top[1].Member.ID != "m-3" {
		t.Errorf("Unexpected top order: %+v", top)
	}
}
