package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeclub/clubhouse/internal/models/dtos"
)

func TestMembersService_DirectorySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("Expected /users, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Directory list is unauthenticated; no bearer expected")
		}
		json.NewEncoder(w).Encode([]dtos.Member{
			{ID: "m-1", Name: "Alice", Points: 40},
			{ID: "m-2", Name: "Bob", Points: 10},
		})
	}))
	defer server.Close()

	svc := NewMembersService(newTestProvider(server.URL))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected load, got %v", err)
	}

	if svc.Count() != 2 {
		t.Errorf("Expected 2 members, got %d", svc.Count())
	}

	member, ok := svc.Find("m-2")
	if !ok || member.Name != "Bob" {
		t.Errorf("Expected to find Bob, got %+v (%v)", member, ok)
	}
	if _, ok := svc.Find("m-9"); ok {
		t.Error("Expected miss for unknown member")
	}
}
