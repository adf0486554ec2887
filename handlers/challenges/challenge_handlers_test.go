package challenges_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seenaf/handlers/challenges"
	"seenaf/models"
	"seenaf/testutil"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	challenges.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListChallengesVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	testutil.CreateChallenge(t, db, "visible", 100, "SEENAF{one}", true)
	testutil.CreateChallenge(t, db, "hidden", 100, "SEENAF{two}", false)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/challenges/", nil, testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusOK {
		t.Fatalf("player list status = %d, want 200", w.Code)
	}
	var forPlayer []models.Challenge
	if err := json.Unmarshal(w.Body.Bytes(), &forPlayer); err != nil {
		t.Fatal(err)
	}
	if len(forPlayer) != 1 || forPlayer[0].Title != "visible" {
		t.Errorf("player sees %d challenges, want only the active one", len(forPlayer))
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/challenges/", nil, testutil.AuthCookie(t, admin, models.RoleAdmin))
	var forAdmin []models.Challenge
	if err := json.Unmarshal(w.Body.Bytes(), &forAdmin); err != nil {
		t.Fatal(err)
	}
	if len(forAdmin) != 2 {
		t.Errorf("admin sees %d challenges, want 2", len(forAdmin))
	}
}

func TestFlagNeverSerializedForPlayers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{super_secret}", true)
	r := newRouter()

	for _, path := range []string{
		"/api/v1/challenges/",
		"/api/v1/challenges/" + challenge.ID,
	} {
		w := doJSON(t, r, http.MethodGet, path, nil, testutil.AuthCookie(t, player, models.RolePlayer))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, w.Code)
		}
		if strings.Contains(w.Body.String(), "super_secret") {
			t.Errorf("GET %s leaks the flag in the response body", path)
		}
	}
}

func TestGetChallengeHiddenIndistinguishableFromAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	hidden := testutil.CreateChallenge(t, db, "hidden", 100, "SEENAF{flag}", false)
	r := newRouter()

	cookie := testutil.AuthCookie(t, player, models.RolePlayer)
	forHidden := doJSON(t, r, http.MethodGet, "/api/v1/challenges/"+hidden.ID, nil, cookie)
	forAbsent := doJSON(t, r, http.MethodGet, "/api/v1/challenges/00000000-0000-0000-0000-000000000000", nil, cookie)

	if forHidden.Code != http.StatusNotFound || forAbsent.Code != http.StatusNotFound {
		t.Fatalf("statuses = %d/%d, want 404 for both hidden and absent", forHidden.Code, forAbsent.Code)
	}
	if forHidden.Body.String() != forAbsent.Body.String() {
		t.Errorf("hidden challenge response differs from absent one: %s vs %s", forHidden.Body, forAbsent.Body)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/challenges/"+hidden.ID, nil, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Errorf("admin on hidden challenge: status = %d, want 200", w.Code)
	}
}

func TestCreateChallengeValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	r := newRouter()

	valid := map[string]interface{}{
		"title":       "pwn intro",
		"description": "exploit the binary",
		"category":    "pwn",
		"difficulty":  "medium",
		"points":      200,
		"flag":        "SEENAF{first_pwn}",
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/challenges/", valid, testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusForbidden {
		t.Errorf("player create status = %d, want 403", w.Code)
	}

	adminCookie := testutil.AuthCookie(t, admin, models.RoleAdmin)

	tests := []struct {
		name     string
		mutate   func(map[string]interface{})
		wantCode int
	}{
		{"valid", func(m map[string]interface{}) {}, http.StatusCreated},
		{"points too low", func(m map[string]interface{}) { m["points"] = 0 }, http.StatusBadRequest},
		{"points too high", func(m map[string]interface{}) { m["points"] = 1001 }, http.StatusBadRequest},
		{"bad flag format", func(m map[string]interface{}) { m["flag"] = "not_a_flag" }, http.StatusBadRequest},
		{"bad difficulty", func(m map[string]interface{}) { m["difficulty"] = "impossible" }, http.StatusBadRequest},
		{"blank title", func(m map[string]interface{}) { m["title"] = "   " }, http.StatusBadRequest},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{}
			for k, v := range valid {
				body[k] = v
			}
			body["title"] = fmt.Sprintf("challenge %d", i)
			tt.mutate(body)

			w := doJSON(t, r, http.MethodPost, "/api/v1/challenges/", body, adminCookie)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body)
			}
		})
	}
}

func TestSetChallengeActiveIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	r := newRouter()
	cookie := testutil.AuthCookie(t, admin, models.RoleAdmin)

	path := "/api/v1/challenges/" + challenge.ID + "/active"
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPut, path, map[string]interface{}{"is_active": false}, cookie)
		if w.Code != http.StatusOK {
			t.Fatalf("toggle %d status = %d, want 200", i, w.Code)
		}
	}

	var stored models.Challenge
	db.First(&stored, "id = ?", challenge.ID)
	if stored.IsActive {
		t.Error("challenge still active after toggle")
	}
}

func TestSubmitFlagEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	r := newRouter()
	cookie := testutil.AuthCookie(t, player, models.RolePlayer)
	path := "/api/v1/challenges/" + challenge.ID + "/submit"

	tests := []struct {
		name       string
		flag       string
		wantCode   int
		wantResult string
	}{
		{"empty", "", http.StatusBadRequest, ""},
		{"incorrect", "SEENAF{wrong}", http.StatusOK, "incorrect"},
		{"correct", "SEENAF{flag}", http.StatusOK, "correct"},
		{"already solved", "SEENAF{flag}", http.StatusOK, "already_solved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, path, map[string]interface{}{"flag": tt.flag}, cookie)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body)
			}
			if tt.wantResult == "" {
				return
			}
			var outcome map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
				t.Fatal(err)
			}
			if outcome["result"] != tt.wantResult {
				t.Errorf("result = %v, want %s", outcome["result"], tt.wantResult)
			}
		})
	}
}

func TestUpdateChallengePointsRecomputesSolvers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/challenges/"+challenge.ID+"/submit",
		map[string]interface{}{"flag": "SEENAF{flag}"}, testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/challenges/"+challenge.ID,
		map[string]interface{}{"points": 250}, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body)
	}

	var solver models.User
	db.First(&solver, "id = ?", player.ID)
	if solver.TotalScore != 250 {
		t.Errorf("solver score = %d, want 250 after the points change", solver.TotalScore)
	}
}

func TestDeleteChallengeRecomputesSolvers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/challenges/"+challenge.ID+"/submit",
		map[string]interface{}{"flag": "SEENAF{flag}"}, testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/challenges/"+challenge.ID, nil, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body)
	}

	var solver models.User
	db.First(&solver, "id = ?", player.ID)
	if solver.TotalScore != 0 {
		t.Errorf("solver score = %d, want 0 after challenge deletion", solver.TotalScore)
	}
}
