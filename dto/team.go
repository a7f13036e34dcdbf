package dto

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}
