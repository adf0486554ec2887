package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seenaf/handlers/users"
	"seenaf/models"
	"seenaf/testutil"
	"seenaf/utils"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	users.RegisterRoutes(r.Group("/api/v1"))
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

func TestGetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/me", nil, testutil.AuthCookie(t, user, models.RolePlayer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}

	var profile users.ProfileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatal(err)
	}
	if profile.Username != "alice" || profile.Role != models.RolePlayer {
		t.Errorf("profile = %s/%s, want alice/player", profile.Username, profile.Role)
	}
}

func TestChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()
	cookie := testutil.AuthCookie(t, user, models.RolePlayer)

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/me/password", map[string]string{
		"current_password": "wrong",
		"new_password":     "newpassword456",
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong current password status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/users/me/password", map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword456",
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}

	var stored models.User
	db.First(&stored, "id = ?", user.ID)
	if !utils.CheckPasswordHash("newpassword456", stored.Password) {
		t.Error("new password does not verify against the stored hash")
	}
}

func TestSetRoleAudited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()
	cookie := testutil.AuthCookie(t, admin, models.RoleAdmin)

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+player.ID+"/role",
		map[string]string{"role": "admin"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("grant status = %d: %s", w.Code, w.Body)
	}

	var assignment models.RoleAssignment
	db.First(&assignment, "user_id = ?", player.ID)
	if assignment.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", assignment.Role)
	}
	if assignment.GrantedBy == nil || *assignment.GrantedBy != admin.ID {
		t.Error("grant not attributed to the acting admin")
	}

	var count int64
	db.Model(&models.RoleAssignment{}).Where("user_id = ?", player.ID).Count(&count)
	if count != 1 {
		t.Errorf("role assignment rows = %d, want exactly 1", count)
	}

	var entry models.AuditEntry
	if err := db.First(&entry, "action = ?", models.AuditRoleGranted).Error; err != nil {
		t.Fatal("role grant left no audit entry")
	}
	if entry.ActorID != admin.ID || entry.TargetID != player.ID {
		t.Errorf("audit actor/target = %s/%s, want %s/%s", entry.ActorID, entry.TargetID, admin.ID, player.ID)
	}

	// Revoke back to player
	w = doJSON(t, r, http.MethodPut, "/api/v1/users/"+player.ID+"/role",
		map[string]string{"role": "player"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("revoke status = %d: %s", w.Code, w.Body)
	}
	var revoked int64
	db.Model(&models.AuditEntry{}).Where("action = ?", models.AuditRoleRevoked).Count(&revoked)
	if revoked != 1 {
		t.Errorf("revoke audit entries = %d, want 1", revoked)
	}
}

func TestSetRoleRestrictions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+admin.ID+"/role",
		map[string]string{"role": "player"}, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("self role change status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/users/"+admin.ID+"/role",
		map[string]string{"role": "admin"}, testutil.AuthCookie(t, player, models.RolePlayer))
	if w.Code != http.StatusForbidden {
		t.Errorf("player granting roles status = %d, want 403", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/users/"+player.ID+"/role",
		map[string]string{"role": "superuser"}, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown role status = %d, want 400", w.Code)
	}
}

func TestSetBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()
	cookie := testutil.AuthCookie(t, admin, models.RoleAdmin)

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+player.ID+"/blocked",
		map[string]bool{"blocked": true}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("block status = %d: %s", w.Code, w.Body)
	}

	var stored models.User
	db.First(&stored, "id = ?", player.ID)
	if !stored.Blocked {
		t.Error("user not blocked")
	}

	var entries int64
	db.Model(&models.AuditEntry{}).Where("action = ?", models.AuditUserBlocked).Count(&entries)
	if entries != 1 {
		t.Errorf("block audit entries = %d, want 1", entries)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/users/"+admin.ID+"/blocked",
		map[string]bool{"blocked": true}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("self block status = %d, want 400", w.Code)
	}
}

func TestOverrideScoreEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()

	w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+player.ID+"/score",
		map[string]int{"score": 750}, testutil.AuthCookie(t, admin, models.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("override status = %d: %s", w.Code, w.Body)
	}

	var stored models.User
	db.First(&stored, "id = ?", player.ID)
	if stored.TotalScore != 750 {
		t.Errorf("total score = %d, want 750", stored.TotalScore)
	}
}

func TestDeleteUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	r := newRouter()
	cookie := testutil.AuthCookie(t, admin, models.RoleAdmin)

	testutil.CreateSubmission(t, db, player.ID, challenge.ID, true, challenge.CreatedAt)
	db.Model(&challenge).Update("solved_count", 1)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/users/"+player.ID, nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body)
	}

	var userCount, submissionCount, assignmentCount int64
	db.Model(&models.User{}).Where("id = ?", player.ID).Count(&userCount)
	db.Model(&models.Submission{}).Where("user_id = ?", player.ID).Count(&submissionCount)
	db.Model(&models.RoleAssignment{}).Where("user_id = ?", player.ID).Count(&assignmentCount)
	if userCount != 0 || submissionCount != 0 || assignmentCount != 0 {
		t.Errorf("leftover rows after delete: user=%d submissions=%d assignments=%d", userCount, submissionCount, assignmentCount)
	}

	var stored models.Challenge
	db.First(&stored, "id = ?", challenge.ID)
	if stored.SolvedCount != 0 {
		t.Errorf("solved count = %d, want 0 after solver deletion", stored.SolvedCount)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/"+admin.ID, nil, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("self delete status = %d, want 400", w.Code)
	}
}
