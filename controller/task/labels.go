package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/dto"
	"kanban/model"
)

// AddLabel attaches a label to the task. Labels are deduplicated by
// (name, color): an existing pair is reused instead of inserting a twin.
func AddLabel(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	var request dto.AddLabelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	label, err := findOrCreateLabel(db, request.Name, request.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create label"})
		return
	}
	if err := db.Model(task).Association("Labels").Append(label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach label"})
		return
	}

	c.JSON(http.StatusCreated, label)
}

func findOrCreateLabel(db *gorm.DB, name, color string) (*model.Label, error) {
	label := model.Label{Name: name, Color: color}
	err := db.Where("name = ? AND color = ?", name, color).FirstOrCreate(&label).Error
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func ListLabels(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}

	var labels []model.Label
	if err := db.Model(task).Association("Labels").Find(&labels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch labels"})
		return
	}
	c.JSON(http.StatusOK, labels)
}

// RemoveLabel detaches a label from the task; the label row itself stays
// for other tasks.
func RemoveLabel(c *gin.Context, db *gorm.DB) {
	task, ok := accessibleTask(db, c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "label_id")
	if !ok {
		return
	}

	var label model.Label
	if err := db.Where("label_id = ?", labelID).First(&label).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Label not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch label"})
		}
		return
	}
	if err := db.Model(task).Association("Labels").Delete(&label); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach label"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Label removed successfully"})
}
