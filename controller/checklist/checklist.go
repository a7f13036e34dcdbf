package checklist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/dto"
	"kanban/middleware"
	"kanban/model"
	"kanban/services/access"
)

func ChecklistController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/api/tasks/:task_id/checklist", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			AddItem(c, db)
		})
		routes.PUT("/:item_id/toggle", func(c *gin.Context) {
			ToggleItem(c, db)
		})
	}
}

func taskForRequest(c *gin.Context, db *gorm.DB) (*model.Task, bool) {
	userID := c.MustGet("userId").(int)
	taskID, err := strconv.Atoi(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task_id"})
		return nil, false
	}

	var task model.Task
	if err := db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return nil, false
	}
	if _, err := access.RequireBoard(db, userID, task.BoardID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return nil, false
	}
	return &task, true
}

// AddItem appends a checklist item with the next id (1 for an empty
// checklist, max+1 otherwise) and rewrites the whole sequence on the task.
func AddItem(c *gin.Context, db *gorm.DB) {
	task, ok := taskForRequest(c, db)
	if !ok {
		return
	}

	var request dto.AddChecklistItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updated := task.Checklist.Append(request.Content)
	if err := db.Model(task).Update("checklist", updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update checklist"})
		return
	}
	task.Checklist = updated

	c.JSON(http.StatusOK, task)
}

// ToggleItem flips the completion flag of one item, found by id inside the
// task's checklist.
func ToggleItem(c *gin.Context, db *gorm.DB) {
	task, ok := taskForRequest(c, db)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item_id"})
		return
	}

	updated, found := task.Checklist.Toggle(itemID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		return
	}
	if err := db.Model(task).Update("checklist", updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update checklist"})
		return
	}
	task.Checklist = updated

	c.JSON(http.StatusOK, task)
}
