package task

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/dto"
	"kanban/model"
	"kanban/services/position"
)

// UpdateTask applies a partial update. Field changes and any status or
// position move commit in one transaction, so a rejected or failed move
// leaves the row exactly as it was.
func UpdateTask(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if request.Status != nil && !model.ValidStatus(*request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if request.Priority != nil && !model.ValidPriority(*request.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}
	if request.Position != nil && *request.Position < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position"})
		return
	}

	updates := make(map[string]any)
	if request.Title != nil && *request.Title != "" {
		updates["title"] = *request.Title
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.Priority != nil {
		updates["priority"] = *request.Priority
	}
	if request.DueDate.Set {
		// An explicit null clears the due date.
		updates["due_date"] = request.DueDate.Value
	}
	if request.IsArchived != nil {
		updates["is_archived"] = *request.IsArchived
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if len(updates) > 0 {
		if err := tx.Model(task).Updates(updates).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}
	if request.Status != nil || request.Position != nil {
		newStatus := task.Status
		if request.Status != nil {
			newStatus = *request.Status
		}
		if err := position.MoveIn(tx, task, newStatus, request.Position); err != nil {
			tx.Rollback()
			c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	if err := db.Preload("Labels").First(task, "task_id = ?", task.TaskID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	c.JSON(http.StatusOK, task)
}
