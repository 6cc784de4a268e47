package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bondmatch/internal/models"
	"bondmatch/internal/services"
)

type mockSearchHistoryService struct {
	recorded  []services.SearchEntry
	historyFn func(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)
}

var _ services.SearchHistoryServicer = (*mockSearchHistoryService)(nil)

func (m *mockSearchHistoryService) Record(_ context.Context, entry services.SearchEntry) {
	m.recorded = append(m.recorded, entry)
}

func (m *mockSearchHistoryService) History(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, userID, limit)
	}
	return []models.SearchHistory{}, nil
}

func setupSearchHistoryRouter(handler *SearchHistoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/search-history", handler.GetHistory)
	auth.POST("/search-history", handler.RecordSearch)
	return r
}

func TestSearchHistoryHandler_GetHistory(t *testing.T) {
	t.Run("returns_200_with_history", func(t *testing.T) {
		var gotUser string
		var gotLimit int
		svc := &mockSearchHistoryService{
			historyFn: func(_ context.Context, userID string, limit int) ([]models.SearchHistory, error) {
				gotUser, gotLimit = userID, limit
				return []models.SearchHistory{
					{ID: "h1", UserID: userID, Query: "220501.IB", BondCode: "220501.IB", ResultCount: 3, CreatedAt: time.Now()},
				}, nil
			},
		}
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(svc))

		rec := doRequest(r, "GET", "/search-history?limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID || gotLimit != 5 {
			t.Errorf("unexpected args user=%q limit=%d", gotUser, gotLimit)
		}
		history := parseJSON(t, rec)["history"].([]interface{})
		if len(history) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(history))
		}
		if history[0].(map[string]interface{})["result_count"].(float64) != 3 {
			t.Errorf("unexpected entry: %v", history[0])
		}
	})

	t.Run("omitted_limit_passes_zero", func(t *testing.T) {
		gotLimit := -1
		svc := &mockSearchHistoryService{
			historyFn: func(_ context.Context, _ string, limit int) ([]models.SearchHistory, error) {
				gotLimit = limit
				return []models.SearchHistory{}, nil
			},
		}
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(svc))

		rec := doRequest(r, "GET", "/search-history", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 0 {
			t.Errorf("expected limit 0 so the service default applies, got %d", gotLimit)
		}
	})

	t.Run("returns_400_on_limit_above_max", func(t *testing.T) {
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(&mockSearchHistoryService{}))

		rec := doRequest(r, "GET", "/search-history?limit=101", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns_401_without_auth", func(t *testing.T) {
		r := gin.New()
		r.GET("/search-history", NewSearchHistoryHandler(&mockSearchHistoryService{}).GetHistory)

		rec := doRequest(r, "GET", "/search-history", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestSearchHistoryHandler_RecordSearch(t *testing.T) {
	t.Run("returns_204_and_records_entry", func(t *testing.T) {
		svc := &mockSearchHistoryService{}
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(svc))

		rec := doRequest(r, "POST", "/search-history", `{"query":"建设银行","result_count":2}`)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(svc.recorded) != 1 {
			t.Fatalf("expected 1 recorded entry, got %d", len(svc.recorded))
		}
		entry := svc.recorded[0]
		if entry.UserID != testUserID || entry.Query != "建设银行" || entry.ResultCount != 2 {
			t.Errorf("unexpected entry: %+v", entry)
		}
	})

	t.Run("returns_400_on_missing_query", func(t *testing.T) {
		svc := &mockSearchHistoryService{}
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(svc))

		rec := doRequest(r, "POST", "/search-history", `{"result_count":2}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if len(svc.recorded) != 0 {
			t.Error("expected nothing recorded")
		}
	})

	t.Run("returns_400_on_negative_count", func(t *testing.T) {
		r := setupSearchHistoryRouter(NewSearchHistoryHandler(&mockSearchHistoryService{}))

		rec := doRequest(r, "POST", "/search-history", `{"query":"x","result_count":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
