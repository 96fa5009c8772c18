package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

func likeRequest(userID, profileID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/profiles/"+profileID+"/like", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("profileId", profileID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestMutualLikeLeavesMatchRegistryUntouched(t *testing.T) {
	dating := services.NewMemoryDatingService(nil)
	matches := services.NewMemoryMatchService(nil, nil, nil)
	h := NewDatingHandler(dating, nil)
	ctx := context.Background()

	aliceProf, err := dating.Create(ctx, "alice", &models.CreateDatingProfileRequest{
		PetName: "Rex", Age: 30, Gender: models.GenderOther,
	})
	if err != nil {
		t.Fatalf("create alice profile: %v", err)
	}
	bobProf, err := dating.Create(ctx, "bob", &models.CreateDatingProfileRequest{
		PetName: "Tom", Age: 28, Gender: models.GenderOther,
	})
	if err != nil {
		t.Fatalf("create bob profile: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Like(rec, likeRequest("alice", bobProf.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("first like status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Like(rec, likeRequest("bob", aliceProf.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("second like status = %d", rec.Code)
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    models.LikeResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.Match {
		t.Fatal("mutual like not reported as a match")
	}

	// Reciprocity stays inside the profile lists; the registry only
	// changes through the explicit match endpoints.
	for _, id := range []string{"alice", "bob"} {
		records, err := matches.ListFor(ctx, id)
		if err != nil {
			t.Fatalf("ListFor(%s): %v", id, err)
		}
		if len(records) != 0 {
			t.Fatalf("registry records for %s after mutual like = %d, want 0", id, len(records))
		}
	}

	got, err := dating.GetByID(ctx, aliceProf.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Matches) != 1 || got.Matches[0] != bobProf.ID {
		t.Fatalf("alice profile matches = %v", got.Matches)
	}
}
