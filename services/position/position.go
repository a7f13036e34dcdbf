// Package position maintains the dense task ordering inside each
// (board, status) partition. Positions run 1..n with no gaps or duplicates;
// every multi-row shift runs in a single transaction so a half-applied move
// can never leave the partition corrupted.
package position

import (
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/model"
)

// Next returns the append position for a partition: max+1, so the first
// task of an empty partition lands on 1. Creation always appends and never
// renumbers siblings.
func Next(db *gorm.DB, boardID int, status string) (int, error) {
	max, err := maxPosition(db, boardID, status)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Move applies a status and/or position change to a task in its own
// transaction. A nil newPos with a changed status appends at the end of the
// destination column. Positions past the end of the destination clamp to
// the append slot.
func Move(db *gorm.DB, task *model.Task, newStatus string, newPos *int) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := MoveIn(tx, task, newStatus, newPos); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// MoveIn runs a move inside the caller's transaction, so it can commit or
// roll back together with other changes to the same task. The sibling
// shifts and the task's own row are written through tx; on success the
// in-memory task reflects the new status and position.
func MoveIn(tx *gorm.DB, task *model.Task, newStatus string, newPos *int) error {
	if !model.ValidStatus(newStatus) {
		return apperr.InvalidInput("status %q", newStatus)
	}
	if newPos != nil && *newPos < 1 {
		return apperr.InvalidInput("position %d", *newPos)
	}
	if newStatus == task.Status && (newPos == nil || *newPos == task.Position) {
		return nil
	}

	target, err := shift(tx, task, newStatus, newPos)
	if err != nil {
		return err
	}
	task.Status = newStatus
	task.Position = target
	return nil
}

// CloseGap renumbers a partition after a task leaves it: every position
// greater than the removed one is decremented. Callers run it inside the
// same transaction as the row deletion.
func CloseGap(tx *gorm.DB, boardID int, status string, removed int) error {
	return tx.Model(&model.Task{}).
		Where("board_id = ? AND status = ? AND position > ?", boardID, status, removed).
		Update("position", gorm.Expr("position - 1")).Error
}

func shift(tx *gorm.DB, task *model.Task, newStatus string, newPos *int) (int, error) {
	if newStatus == task.Status {
		return shiftWithin(tx, task, *newPos)
	}
	return shiftAcross(tx, task, newStatus, newPos)
}

// shiftWithin reorders inside one column. Moving down pulls the crossed
// siblings up by one; moving up pushes them down by one.
func shiftWithin(tx *gorm.DB, task *model.Task, newPos int) (int, error) {
	total, err := partitionCount(tx, task.BoardID, task.Status)
	if err != nil {
		return 0, err
	}
	if newPos > total {
		newPos = total
	}
	old := task.Position
	switch {
	case newPos == old:
		// Clamping landed on the current slot; nothing to shift.
		return old, nil
	case newPos > old:
		err = tx.Model(&model.Task{}).
			Where("board_id = ? AND status = ? AND position > ? AND position <= ?",
				task.BoardID, task.Status, old, newPos).
			Update("position", gorm.Expr("position - 1")).Error
	default:
		err = tx.Model(&model.Task{}).
			Where("board_id = ? AND status = ? AND position >= ? AND position < ?",
				task.BoardID, task.Status, newPos, old).
			Update("position", gorm.Expr("position + 1")).Error
	}
	if err != nil {
		return 0, err
	}
	return newPos, updateRow(tx, task.TaskID, task.Status, newPos)
}

// shiftAcross closes the gap in the source column and opens a slot in the
// destination. Both partition updates complete before the moved row is
// written so the mover cannot collide with a shifted neighbor.
func shiftAcross(tx *gorm.DB, task *model.Task, newStatus string, newPos *int) (int, error) {
	destCount, err := partitionCount(tx, task.BoardID, newStatus)
	if err != nil {
		return 0, err
	}
	target := destCount + 1
	if newPos != nil && *newPos < target {
		target = *newPos
	}
	if err := tx.Model(&model.Task{}).
		Where("board_id = ? AND status = ? AND position > ?",
			task.BoardID, task.Status, task.Position).
		Update("position", gorm.Expr("position - 1")).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&model.Task{}).
		Where("board_id = ? AND status = ? AND position >= ?",
			task.BoardID, newStatus, target).
		Update("position", gorm.Expr("position + 1")).Error; err != nil {
		return 0, err
	}
	return target, updateRow(tx, task.TaskID, newStatus, target)
}

func updateRow(tx *gorm.DB, taskID int, status string, pos int) error {
	return tx.Model(&model.Task{}).
		Where("task_id = ?", taskID).
		Updates(map[string]any{"status": status, "position": pos}).Error
}

func partitionCount(tx *gorm.DB, boardID int, status string) (int, error) {
	var count int64
	err := tx.Model(&model.Task{}).
		Where("board_id = ? AND status = ?", boardID, status).
		Count(&count).Error
	return int(count), err
}

func maxPosition(tx *gorm.DB, boardID int, status string) (int, error) {
	var max int
	err := tx.Model(&model.Task{}).
		Where("board_id = ? AND status = ?", boardID, status).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}
