package dto

import (
	"encoding/json"
	"time"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// OptionalTime distinguishes a field that was absent from one sent as an
// explicit null, so a set timestamp can be cleared.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// UpdateTaskRequest carries a partial update; nil fields are left alone.
// Position and status changes go through the position engine.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	Position    *int         `json:"position"`
	DueDate     OptionalTime `json:"due_date"`
	IsArchived  *bool        `json:"is_archived"`
}

type AddLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
