package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/dto"
	"kanban/model"
	"kanban/services/access"
)

// AddMember lets a team admin add an existing user to the team.
func AddMember(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}

	var request dto.AddMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if request.Role == "" {
		request.Role = model.RoleMember
	}

	if _, err := access.Team(db, teamID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	admin, err := access.IsTeamAdmin(db, userID, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
		return
	}
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only team admins can add members"})
		return
	}

	member, err := access.AddTeamMember(db, teamID, request.UserID, request.Role)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember lets a team admin remove a membership. Removing the sole
// remaining admin is rejected.
func RemoveMember(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := access.Team(db, teamID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	admin, err := access.IsTeamAdmin(db, userID, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
		return
	}
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only team admins can remove members"})
		return
	}

	if err := access.RemoveTeamMember(db, teamID, targetID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
