package leaderboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seenaf/handlers/leaderboard"
	"seenaf/models"
	"seenaf/services"
	"seenaf/testutil"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	leaderboard.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(t *testing.T, r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetLeaderboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	rival := testutil.CreateUser(t, db, "bob", models.RolePlayer)
	db.Model(&player).Update("total_score", 100)
	db.Model(&rival).Update("total_score", 400)
	r := newRouter()

	w := get(t, r, "/api/v1/leaderboard/", testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}

	var entries []services.LeaderboardEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Rank != 1 {
		t.Errorf("top entry = %s rank %d, want bob rank 1", entries[0].Username, entries[0].Rank)
	}
}

func TestGetLeaderboardRequiresAuth(t *testing.T) {
	testutil.SetupTestDB(t)
	r := newRouter()

	w := get(t, r, "/api/v1/leaderboard/", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestExportLeaderboardAdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	r := newRouter()

	w := get(t, r, "/api/v1/leaderboard/export", testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusForbidden {
		t.Errorf("player export status = %d, want 403", w.Code)
	}

	w = get(t, r, "/api/v1/leaderboard/export", testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin export status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q, want the xlsx media type", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("export produced an empty body")
	}
}
