package position

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban/apperr"
	"kanban/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedBoard(t *testing.T, db *gorm.DB) *model.Board {
	t.Helper()

	team := model.Team{Name: "Team"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	board := model.Board{Name: "Board", TeamID: team.TeamID}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	return &board
}

// seedColumn appends n tasks titled t1..tn to a (board, status) partition.
func seedColumn(t *testing.T, db *gorm.DB, boardID int, status string, n int) []model.Task {
	t.Helper()

	tasks := make([]model.Task, 0, n)
	for i := 1; i <= n; i++ {
		pos, err := Next(db, boardID, status)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		task := model.Task{
			BoardID:  boardID,
			Title:    fmt.Sprintf("t%d", i),
			Status:   status,
			Priority: model.PriorityLow,
			Position: pos,
		}
		if err := db.Create(&task).Error; err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func columnTitles(t *testing.T, db *gorm.DB, boardID int, status string) []string {
	t.Helper()

	var tasks []model.Task
	if err := db.Where("board_id = ? AND status = ?", boardID, status).
		Order("position").Find(&tasks).Error; err != nil {
		t.Fatalf("failed to list column: %v", err)
	}
	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	return titles
}

// assertDense fails unless the partition's positions read exactly 1..n.
func assertDense(t *testing.T, db *gorm.DB, boardID int, status string) {
	t.Helper()

	var tasks []model.Task
	if err := db.Where("board_id = ? AND status = ?", boardID, status).
		Order("position").Find(&tasks).Error; err != nil {
		t.Fatalf("failed to list column: %v", err)
	}
	for i, task := range tasks {
		if task.Position != i+1 {
			t.Fatalf("partition (%d, %s) not dense: index %d has position %d",
				boardID, status, i, task.Position)
		}
	}
}

func assertTitles(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("column order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column order = %v, want %v", got, want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestNextSeedsAtOne(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)

	pos, err := Next(db, board.BoardID, model.StatusTodo)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if pos != 1 {
		t.Errorf("empty partition Next() = %d, want 1", pos)
	}

	seedColumn(t, db, board.BoardID, model.StatusTodo, 2)
	pos, err = Next(db, board.BoardID, model.StatusTodo)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if pos != 3 {
		t.Errorf("Next() after two tasks = %d, want 3", pos)
	}

	// Other statuses and other boards are independent partitions.
	pos, err = Next(db, board.BoardID, model.StatusDone)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if pos != 1 {
		t.Errorf("sibling status Next() = %d, want 1", pos)
	}
	other := seedBoard(t, db)
	pos, err = Next(db, other.BoardID, model.StatusTodo)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if pos != 1 {
		t.Errorf("other board Next() = %d, want 1", pos)
	}
}

func TestMoveDownShiftsCrossedSiblings(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 6)

	// Move the task at position 2 down to position 5: the tasks previously
	// at 3, 4, 5 slide to 2, 3, 4 and the mover lands on 5.
	if err := Move(db, &tasks[1], model.StatusTodo, intPtr(5)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if tasks[1].Position != 5 {
		t.Errorf("moved task position = %d, want 5", tasks[1].Position)
	}
	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t3", "t4", "t5", "t2", "t6"})
	assertDense(t, db, board.BoardID, model.StatusTodo)
}

func TestMoveUpShiftsCrossedSiblings(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 6)

	if err := Move(db, &tasks[4], model.StatusTodo, intPtr(2)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t5", "t2", "t3", "t4", "t6"})
	assertDense(t, db, board.BoardID, model.StatusTodo)
}

func TestMoveToOwnPositionIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 4)

	if err := Move(db, &tasks[2], model.StatusTodo, intPtr(3)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t2", "t3", "t4"})
	assertDense(t, db, board.BoardID, model.StatusTodo)
}

func TestMoveAcrossStatuses(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	todo := seedColumn(t, db, board.BoardID, model.StatusTodo, 3)
	seedColumn(t, db, board.BoardID, model.StatusInProgress, 2)

	// Pull the middle todo task into the top of in_progress: exactly one gap
	// closes in the source and one slot opens in the destination.
	if err := Move(db, &todo[1], model.StatusInProgress, intPtr(1)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if todo[1].Status != model.StatusInProgress || todo[1].Position != 1 {
		t.Errorf("moved task = (%s, %d), want (in_progress, 1)", todo[1].Status, todo[1].Position)
	}
	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t3"})

	var dest []model.Task
	if err := db.Where("board_id = ? AND status = ?", board.BoardID, model.StatusInProgress).
		Order("position").Find(&dest).Error; err != nil {
		t.Fatalf("failed to list destination: %v", err)
	}
	if len(dest) != 3 {
		t.Fatalf("destination column has %d tasks, want 3", len(dest))
	}
	if dest[0].TaskID != todo[1].TaskID {
		t.Errorf("destination head = task %d, want moved task %d", dest[0].TaskID, todo[1].TaskID)
	}
	assertDense(t, db, board.BoardID, model.StatusTodo)
	assertDense(t, db, board.BoardID, model.StatusInProgress)

	var total int64
	if err := db.Model(&model.Task{}).Where("board_id = ?", board.BoardID).Count(&total).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	if total != 5 {
		t.Errorf("board task count = %d, want 5", total)
	}
}

func TestMoveStatusOnlyAppendsToDestination(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	todo := seedColumn(t, db, board.BoardID, model.StatusTodo, 2)
	seedColumn(t, db, board.BoardID, model.StatusDone, 3)

	if err := Move(db, &todo[0], model.StatusDone, nil); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if todo[0].Position != 4 {
		t.Errorf("appended position = %d, want 4", todo[0].Position)
	}
	assertDense(t, db, board.BoardID, model.StatusTodo)
	assertDense(t, db, board.BoardID, model.StatusDone)
}

func TestMoveClampsPastEndOfColumn(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 3)
	seedColumn(t, db, board.BoardID, model.StatusDone, 1)

	if err := Move(db, &tasks[0], model.StatusTodo, intPtr(99)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if tasks[0].Position != 3 {
		t.Errorf("clamped within-column position = %d, want 3", tasks[0].Position)
	}
	assertDense(t, db, board.BoardID, model.StatusTodo)

	if err := Move(db, &tasks[0], model.StatusDone, intPtr(99)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if tasks[0].Position != 2 {
		t.Errorf("clamped cross-column position = %d, want 2", tasks[0].Position)
	}
	assertDense(t, db, board.BoardID, model.StatusTodo)
	assertDense(t, db, board.BoardID, model.StatusDone)
}

func TestMoveRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 2)

	err := Move(db, &tasks[0], model.StatusTodo, intPtr(0))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("Move(position 0) error = %v, want invalid input", err)
	}
	err = Move(db, &tasks[0], "blocked", nil)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("Move(bad status) error = %v, want invalid input", err)
	}
	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t2"})
	assertDense(t, db, board.BoardID, model.StatusTodo)
}

func TestCloseGapRenumbersAfterDelete(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)
	tasks := seedColumn(t, db, board.BoardID, model.StatusTodo, 4)

	victim := tasks[1]
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin error = %v", tx.Error)
	}
	if err := tx.Where("task_id = ?", victim.TaskID).Delete(&model.Task{}).Error; err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if err := CloseGap(tx, board.BoardID, model.StatusTodo, victim.Position); err != nil {
		t.Fatalf("CloseGap() error = %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit error = %v", err)
	}

	assertTitles(t, columnTitles(t, db, board.BoardID, model.StatusTodo),
		[]string{"t1", "t3", "t4"})
	assertDense(t, db, board.BoardID, model.StatusTodo)
}

// TestPartitionStaysDense drives a scripted mix of inserts, moves in both
// directions, cross-column moves and deletes, checking density throughout.
func TestPartitionStaysDense(t *testing.T) {
	db := setupTestDB(t)
	board := seedBoard(t, db)

	check := func() {
		assertDense(t, db, board.BoardID, model.StatusTodo)
		assertDense(t, db, board.BoardID, model.StatusInProgress)
		assertDense(t, db, board.BoardID, model.StatusDone)
	}

	todo := seedColumn(t, db, board.BoardID, model.StatusTodo, 5)
	check()

	steps := []struct {
		task   *model.Task
		status string
		pos    *int
	}{
		{&todo[0], model.StatusTodo, intPtr(4)},
		{&todo[3], model.StatusTodo, intPtr(1)},
		{&todo[2], model.StatusInProgress, nil},
		{&todo[4], model.StatusInProgress, intPtr(1)},
		{&todo[1], model.StatusDone, intPtr(1)},
		{&todo[4], model.StatusDone, intPtr(2)},
		{&todo[0], model.StatusTodo, intPtr(1)},
	}
	for i, step := range steps {
		if err := Move(db, step.task, step.status, step.pos); err != nil {
			t.Fatalf("step %d: Move() error = %v", i, err)
		}
		check()
	}

	// Delete whatever sits in the middle of todo and close the gap.
	var middle model.Task
	if err := db.Where("board_id = ? AND status = ? AND position = ?",
		board.BoardID, model.StatusTodo, 2).First(&middle).Error; err != nil {
		t.Fatalf("failed to pick middle task: %v", err)
	}
	tx := db.Begin()
	if err := tx.Where("task_id = ?", middle.TaskID).Delete(&model.Task{}).Error; err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if err := CloseGap(tx, board.BoardID, model.StatusTodo, middle.Position); err != nil {
		t.Fatalf("CloseGap() error = %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit error = %v", err)
	}
	check()
}
