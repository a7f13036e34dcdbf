package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/dto"
	"kanban/model"
)

func AuthController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/api/auth")
	{
		routes.POST("/register", func(c *gin.Context) {
			Register(c, db)
		})
		routes.POST("/login", func(c *gin.Context) {
			Login(c, db)
		})
	}
}

// CreateAccessToken issues the HS256 bearer token consumed by the auth
// middleware.
func CreateAccessToken(userID int) (string, error) {
	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "kanban",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET_KEY")))
}

// Register creates the user together with their default team, board and
// admin memberships. The whole cascade commits or rolls back as one
// transaction so a failed step never leaves a partial account behind.
func Register(c *gin.Context, db *gorm.DB) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", request.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		err := apperr.Conflict("email already registered")
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	if err := db.Model(&model.User{}).Where("username = ?", request.Username).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		err := apperr.Conflict("username already taken")
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := model.User{
		Email:          request.Email,
		Username:       request.Username,
		HashedPassword: string(hashed),
		FullName:       request.FullName,
	}

	tx := db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	team := model.Team{
		Name:        "My Team",
		Description: "My personal team",
		CreatedByID: user.UserID,
	}
	if err := tx.Create(&team).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create default team"})
		return
	}
	if err := tx.Create(&model.TeamMember{
		TeamID: team.TeamID,
		UserID: user.UserID,
		Role:   model.RoleAdmin,
	}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team membership"})
		return
	}

	board := model.Board{
		Name:        "My Board",
		Description: "My personal board",
		TeamID:      team.TeamID,
		CreatedByID: user.UserID,
		IsPublic:    true,
	}
	if err := tx.Create(&board).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create default board"})
		return
	}
	if err := tx.Create(&model.BoardMember{
		BoardID: board.BoardID,
		UserID:  user.UserID,
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

	c.JSON(http.StatusCreated, user)
}

// Login authenticates by username or email. Unknown account and wrong
// password are not distinguished in the response.
func Login(c *gin.Context, db *gorm.DB) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user model.User
	err := db.Where("username = ? OR email = ?", request.Username, request.Username).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username/email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(request.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username/email or password"})
		return
	}

	accessToken, err := CreateAccessToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
		"user": gin.H{
			"id":        user.UserID,
			"email":     user.Email,
			"username":  user.Username,
			"full_name": user.FullName,
		},
	})
}
