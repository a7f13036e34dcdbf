package board

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

func BoardController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/api/teams/:team_id/boards", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateBoard(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListBoards(c, db)
		})
		routes.GET("/:board_id", func(c *gin.Context) {
			GetBoard(c, db)
		})
		routes.POST("/:board_id/members", func(c *gin.Context) {
			AddMember(c, db)
		})
		routes.DELETE("/:board_id/members/:user_id", func(c *gin.Context) {
			RemoveMember(c, db)
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

// teamBoard loads a board scoped to the team in the path.
func teamBoard(db *gorm.DB, teamID, boardID int) (*model.Board, error) {
	var board model.Board
	err := db.Where("board_id = ? AND team_id = ?", boardID, teamID).
		Preload("Memberships.User").
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("board %d", boardID)
		}
		return nil, err
	}
	return &board, nil
}

// CreateBoard stores a board under the team and makes its creator the first
// board admin, in one transaction. Any team member may create boards.
func CreateBoard(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}

	var request dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if _, err := access.Team(db, teamID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
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

	board := model.Board{
		Name:        request.Name,
		Description: request.Description,
		TeamID:      teamID,
		CreatedByID: userID,
		IsPublic:    request.IsPublic,
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Create(&board).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}
	if err := tx.Create(&model.BoardMember{
		BoardID: board.BoardID,
		UserID:  userID,
		Role:    model.RoleAdmin,
	}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board membership"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, board)
}

// ListBoards returns the team's boards to team members.
func ListBoards(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}

	if _, err := access.Team(db, teamID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
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

	var boards []model.Board
	if err := db.Where("team_id = ?", teamID).Preload("Memberships.User").Find(&boards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch boards"})
		return
	}

	c.JSON(http.StatusOK, boards)
}

// GetBoard applies the visibility rule: public, board member, or member of
// the owning team.
func GetBoard(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	board, err := teamBoard(db, teamID, boardID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	allowed, err := access.CanAccessBoard(db, userID, board)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this board"})
		return
	}

	c.JSON(http.StatusOK, board)
}

// AddMember lets a board admin add a team member to the board.
func AddMember(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
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

	board, err := teamBoard(db, teamID, boardID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	admin, err := access.IsBoardAdmin(db, userID, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
		return
	}
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only board admins can add members"})
		return
	}

	member, err := access.AddBoardMember(db, board, request.UserID, request.Role)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember lets a board admin remove a board membership, with the same
// last-admin protection as teams.
func RemoveMember(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(int)
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := teamBoard(db, teamID, boardID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	admin, err := access.IsBoardAdmin(db, userID, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
		return
	}
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only board admins can remove members"})
		return
	}

	if err := access.RemoveBoardMember(db, boardID, targetID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
