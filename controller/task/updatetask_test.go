package task

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"kanban/model"
)

func setupTaskServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	TaskController(router, db)
	return router, db
}

func bearerToken(t *testing.T, userID int) string {
	t.Helper()

	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + signed
}

// seedBoardTask creates a user, a team, a public board and one task, and
// returns the task and the user's id.
func seedBoardTask(t *testing.T, db *gorm.DB) (*model.Task, int) {
	t.Helper()

	user := model.User{Email: "a@example.com", Username: "alice", HashedPassword: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	team := model.Team{Name: "Team", CreatedByID: user.UserID}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("failed to seed team: %v", err)
	}
	board := model.Board{Name: "Board", TeamID: team.TeamID, CreatedByID: user.UserID, IsPublic: true}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("failed to seed board: %v", err)
	}
	task := model.Task{
		BoardID:   board.BoardID,
		Title:     "original",
		Status:    model.StatusTodo,
		Priority:  model.PriorityLow,
		Position:  1,
		Checklist: model.Checklist{},
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return &task, user.UserID
}

func putTask(t *testing.T, router *gin.Engine, taskID int, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+strconv.Itoa(taskID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateRejectedMoveLeavesFieldsUntouched(t *testing.T) {
	router, db := setupTaskServer(t)
	seeded, userID := seedBoardTask(t, db)
	token := bearerToken(t, userID)

	rec := putTask(t, router, seeded.TaskID, token, `{"title":"mutated","position":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}

	var task model.Task
	if err := db.First(&task, "task_id = ?", seeded.TaskID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if task.Title != "original" {
		t.Errorf("title = %q after rejected update, want %q", task.Title, "original")
	}
	if task.Position != 1 || task.Status != model.StatusTodo {
		t.Errorf("position/status = %d/%q after rejected update, want 1/todo", task.Position, task.Status)
	}
}

func TestUpdateDueDate(t *testing.T) {
	router, db := setupTaskServer(t)
	seeded, userID := seedBoardTask(t, db)
	token := bearerToken(t, userID)

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if err := db.Model(seeded).Update("due_date", &due).Error; err != nil {
		t.Fatalf("failed to set due date: %v", err)
	}

	// A body without due_date leaves it alone.
	if rec := putTask(t, router, seeded.TaskID, token, `{"title":"renamed"}`); rec.Code != http.StatusOK {
		t.Fatalf("title update status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var task model.Task
	if err := db.First(&task, "task_id = ?", seeded.TaskID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if task.DueDate == nil {
		t.Fatal("due date cleared by an update that did not mention it")
	}

	// An explicit null clears it.
	if rec := putTask(t, router, seeded.TaskID, token, `{"due_date":null}`); rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// GORM leaves pointer fields untouched when scanning a NULL column, so
	// the destination must be zeroed before reloading.
	task = model.Task{}
	if err := db.First(&task, "task_id = ?", seeded.TaskID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if task.DueDate != nil {
		t.Errorf("due date = %v after explicit null, want cleared", task.DueDate)
	}
}
