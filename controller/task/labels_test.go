package task

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban/model"
)

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

func TestFindOrCreateLabelDeduplicates(t *testing.T) {
	db := setupTestDB(t)

	first, err := findOrCreateLabel(db, "bug", "#ff0000")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := findOrCreateLabel(db, "bug", "#ff0000")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.LabelID != second.LabelID {
		t.Errorf("same (name, color) produced two labels: %d and %d", first.LabelID, second.LabelID)
	}

	// Same name with a different color is a distinct label.
	other, err := findOrCreateLabel(db, "bug", "#00ff00")
	if err != nil {
		t.Fatalf("different color: %v", err)
	}
	if other.LabelID == first.LabelID {
		t.Error("different color reused the existing label")
	}

	var count int64
	db.Model(&model.Label{}).Count(&count)
	if count != 2 {
		t.Errorf("label count = %d, want 2", count)
	}
}
