package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban/dto"
	"kanban/middleware"
	"kanban/model"
	"kanban/services/access"
)

func TeamController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/api/teams", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateTeam(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListTeams(c, db)
		})
		routes.GET("/:team_id", func(c *gin.Context) {
			GetTeam(c, db)
		})
		routes.POST("/:team_id/members", func(c *gin.Context) {
			AddMember(c, db)
		})
		routes.DELETE("/:team_id/members/:user_id", func(c *gin.Context) {
			RemoveMember(c, db)
		})
	}
}

// pathID parses an integer path parameter, answering 400 itself on garbage.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// CreateTeam stores a team and makes its creator the first admin, in one
// transaction.
func CreateTeam(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	var request dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	team := model.Team{
		Name:        request.Name,
		Description: request.Description,
		CreatedByID: userID,
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Create(&team).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}
	if err := tx.Create(&model.TeamMember{
		TeamID: team.TeamID,
		UserID: userID,
		Role:   model.RoleAdmin,
	}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team membership"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// ListTeams returns the teams the caller belongs to.
func ListTeams(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)

	var teams []model.Team
	err := db.
		Joins("JOIN team_members ON team_members.team_id = teams.team_id").
		Where("team_members.user_id = ?", userID).
		Preload("Memberships.User").
		Find(&teams).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, teams)
}

// GetTeam is member-only: a missing team reads as 404, an existing one the
// caller does not belong to as 403.
func GetTeam(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}

	var team model.Team
	if err := db.Where("team_id = ?", teamID).Preload("Memberships.User").First(&team).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	member, err := access.IsTeamMember(db, userID, teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this team"})
		return
	}

	c.JSON(http.StatusOK, team)
}
