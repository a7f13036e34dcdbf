package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/dto"
	"kanban/model"
)

func AddComment(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	var request dto.AddCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	comment := model.Comment{
		Content: request.Content,
		TaskID:  task.TaskID,
		UserID:  userID,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	if err := db.Preload("User").First(&comment, "comment_id = ?", comment.CommentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func ListComments(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	var comments []model.Comment
	if err := db.Where("task_id = ?", task.TaskID).
		Order("created_at").
		Preload("User").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// DeleteComment removes a comment. Only its author may delete it.
func DeleteComment(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	var comment model.Comment
	err := db.Where("comment_id = ? AND task_id = ?", commentID, task.TaskID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		}
		return
	}
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this comment"})
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
