package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seenaf/handlers/auth"
	"seenaf/models"
	"seenaf/testutil"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newRouter()

	w := postJSON(t, r, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", w.Code, w.Body)
	}

	var registered auth.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatal(err)
	}
	if registered.Role != string(models.RolePlayer) {
		t.Errorf("new account role = %q, want player", registered.Role)
	}
	if registered.Token == "" {
		t.Error("register returned no token")
	}

	// The role claim must exist as a real row, not an implicit default
	var assignment models.RoleAssignment
	if err := db.First(&assignment, "user_id = ?", registered.UserID).Error; err != nil {
		t.Fatal("registration created no role assignment row")
	}
	if assignment.Role != models.RolePlayer {
		t.Errorf("assignment role = %q, want player", assignment.Role)
	}

	w = postJSON(t, r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate email", "someone", "alice@example.com"},
		{"duplicate username", "alice", "new@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/v1/auth/register", map[string]string{
				"username": tt.username,
				"email":    tt.email,
				"password": "password123",
			})
			if w.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409", w.Code)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "alice", models.RolePlayer)
	r := newRouter()

	unknownEmail := postJSON(t, r, "/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	wrongPassword := postJSON(t, r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})

	if unknownEmail.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401 for both", unknownEmail.Code, wrongPassword.Code)
	}
	// Same response either way so account existence does not leak
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Errorf("unknown email and wrong password responses differ: %s vs %s", unknownEmail.Body, wrongPassword.Body)
	}
}

func TestLoginBlockedUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	db.Model(&user).Update("blocked", true)
	r := newRouter()

	w := postJSON(t, r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("blocked login status = %d, want 403", w.Code)
	}
}

func TestLoginWithoutRoleAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	if err := db.Where("user_id = ?", user.ID).Delete(&models.RoleAssignment{}).Error; err != nil {
		t.Fatal(err)
	}
	r := newRouter()

	w := postJSON(t, r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("login without role claim status = %d, want 403: must never default to a role", w.Code)
	}
}
