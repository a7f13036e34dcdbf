package attachment

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/blob"
	"kanban/middleware"
	"kanban/model"
	"kanban/services/access"
)

func AttachmentController(router *gin.Engine, db *gorm.DB, store blob.Store) {
	routes := router.Group("/api/tasks/:task_id/attachments", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			Upload(c, db, store)
		})
		routes.GET("", func(c *gin.Context) {
			List(c, db)
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

// Upload saves the multipart file through the blob store and records the
// attachment row pointing at it.
func Upload(c *gin.Context, db *gorm.DB, store blob.Store) {
	userID := c.MustGet("userId").(int)
	task, ok := taskForRequest(c, db)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	locator, err := store.Save(src, header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	attachment := model.Attachment{
		Filename: filepath.Base(header.Filename),
		FilePath: locator,
		URL:      fmt.Sprintf("/uploads/%s", locator),
		TaskID:   task.TaskID,
		UserID:   userID,
	}
	if err := db.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attachment"})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

func List(c *gin.Context, db *gorm.DB) {
	task, ok := taskForRequest(c, db)
	if !ok {
		return
	}

	var attachments []model.Attachment
	if err := db.Where("task_id = ?", task.TaskID).
		Order("created_at").
		Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, attachments)
}
