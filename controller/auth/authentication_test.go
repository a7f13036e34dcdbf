package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban/model"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	AuthController(router, db)
	return router, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerBody(email, username string) map[string]any {
	return map[string]any{
		"email":     email,
		"username":  username,
		"password":  "correct-horse",
		"full_name": "Test User",
	}
}

func TestRegisterCreatesDefaultWorkspace(t *testing.T) {
	router, db := setupTestServer(t)

	rec := postJSON(t, router, "/api/auth/register", registerBody("a@example.com", "alice"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var user model.User
	if err := db.Where("email = ?", "a@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}

	var team model.Team
	if err := db.Where("created_by_id = ?", user.UserID).First(&team).Error; err != nil {
		t.Fatalf("default team not created: %v", err)
	}
	var teamMember model.TeamMember
	if err := db.Where("team_id = ? AND user_id = ?", team.TeamID, user.UserID).First(&teamMember).Error; err != nil {
		t.Fatalf("team membership not created: %v", err)
	}
	if teamMember.Role != model.RoleAdmin {
		t.Errorf("team role = %q, want admin", teamMember.Role)
	}

	var board model.Board
	if err := db.Where("team_id = ?", team.TeamID).First(&board).Error; err != nil {
		t.Fatalf("default board not created: %v", err)
	}
	if !board.IsPublic {
		t.Error("default board should be public")
	}
	var boardMember model.BoardMember
	if err := db.Where("board_id = ? AND user_id = ?", board.BoardID, user.UserID).First(&boardMember).Error; err != nil {
		t.Fatalf("board membership not created: %v", err)
	}
	if boardMember.Role != model.RoleAdmin {
		t.Errorf("board role = %q, want admin", boardMember.Role)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	router, db := setupTestServer(t)

	if rec := postJSON(t, router, "/api/auth/register", registerBody("a@example.com", "alice")); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}

	if rec := postJSON(t, router, "/api/auth/register", registerBody("a@example.com", "bob")); rec.Code != http.StatusConflict {
		t.Errorf("duplicate email status = %d, want 409", rec.Code)
	}
	if rec := postJSON(t, router, "/api/auth/register", registerBody("b@example.com", "alice")); rec.Code != http.StatusConflict {
		t.Errorf("duplicate username status = %d, want 409", rec.Code)
	}

	// The rejected attempts must not have left partial cascades behind.
	var users, teams int64
	db.Model(&model.User{}).Count(&users)
	db.Model(&model.Team{}).Count(&teams)
	if users != 1 || teams != 1 {
		t.Errorf("row counts after rejects: users = %d, teams = %d, want 1 and 1", users, teams)
	}
}

func TestLogin(t *testing.T) {
	router, _ := setupTestServer(t)

	if rec := postJSON(t, router, "/api/auth/register", registerBody("a@example.com", "alice")); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	// Username and email both work as the login identifier.
	for _, identifier := range []string{"alice", "a@example.com"} {
		rec := postJSON(t, router, "/api/auth/login", map[string]any{
			"username": identifier,
			"password": "correct-horse",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("login as %q status = %d, body = %s", identifier, rec.Code, rec.Body.String())
		}
		var response struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to decode login response: %v", err)
		}
		if response.AccessToken == "" || response.TokenType != "bearer" {
			t.Errorf("login response = %+v", response)
		}
	}

	rec := postJSON(t, router, "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
}
