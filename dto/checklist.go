package dto

type AddChecklistItemRequest struct {
	Content string `json:"content" binding:"required"`
}
