package task

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
	"kanban/services/position"
)

func TaskController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/api/tasks", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, db)
		})
		routes.GET("/:task_id", func(c *gin.Context) {
			GetTask(c, db)
		})
		routes.PUT("/:task_id", func(c *gin.Context) {
			UpdateTask(c, db)
		})
		routes.DELETE("/:task_id", func(c *gin.Context) {
			DeleteTask(c, db)
		})
		routes.POST("/:task_id/labels", func(c *gin.Context) {
			AddLabel(c, db)
		})
		routes.GET("/:task_id/labels", func(c *gin.Context) {
			ListLabels(c, db)
		})
		routes.DELETE("/:task_id/labels/:label_id", func(c *gin.Context) {
			RemoveLabel(c, db)
		})
		routes.POST("/:task_id/comments", func(c *gin.Context) {
			AddComment(c, db)
		})
		routes.GET("/:task_id/comments", func(c *gin.Context) {
			ListComments(c, db)
		})
		routes.DELETE("/:task_id/comments/:comment_id", func(c *gin.Context) {
			DeleteComment(c, db)
		})
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// accessibleTask loads a task and verifies the caller can access its board.
func accessibleTask(db *gorm.DB, c *gin.Context) (*model.Task, bool) {
	userID := c.MustGet("userId").(int)
	taskID, ok := pathID(c, "task_id")
	if !ok {
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

// CreateTask appends a task at the end of its (board, status) column.
func CreateTask(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	boardID, err := strconv.Atoi(c.Query("board_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board_id"})
		return
	}

	var request dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if request.Status == "" {
		request.Status = model.StatusTodo
	}
	if request.Priority == "" {
		request.Priority = model.PriorityLow
	}
	if !model.ValidStatus(request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if !model.ValidPriority(request.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	if _, err := access.RequireBoard(db, userID, boardID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	creatorID := userID
	task := model.Task{
		BoardID:     boardID,
		Title:       request.Title,
		Description: request.Description,
		Status:      request.Status,
		Priority:    request.Priority,
		DueDate:     request.DueDate,
		CreatorID:   &creatorID,
		Checklist:   model.Checklist{},
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	pos, err := position.Next(tx, boardID, task.Status)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign position"})
		return
	}
	task.Position = pos
	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns a board's tasks ordered by column and position.
func ListTasks(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	boardID, err := strconv.Atoi(c.Query("board_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board_id"})
		return
	}

	if _, err := access.RequireBoard(db, userID, boardID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	var tasks []model.Task
	if err := db.Where("board_id = ?", boardID).
		Order("status, position").
		Preload("Labels").
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func GetTask(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}
	if err := db.Preload("Labels").First(task, "task_id = ?", task.TaskID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes the task with its comments, attachments and label
// links, and renumbers the column it leaves so positions stay dense.
func DeleteTask(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("task_id = ?", task.TaskID).Delete(&model.Comment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comments"})
		return
	}
	if err := tx.Where("task_id = ?", task.TaskID).Delete(&model.Attachment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachments"})
		return
	}
	if err := tx.Model(task).Association("Labels").Clear(); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach labels"})
		return
	}
	if err := tx.Where("task_id = ?", task.TaskID).Delete(&model.Task{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if err := position.CloseGap(tx, task.BoardID, task.Status, task.Position); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to renumber column"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
