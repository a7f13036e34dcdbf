package model

import (
	"time"
)

// Task statuses. Each (board, status) pair is one ordering partition.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidStatus reports whether status names a real column.
func ValidStatus(status string) bool {
	return status == StatusTodo || status == StatusInProgress || status == StatusDone
}

// ValidPriority reports whether priority is one of the accepted values.
func ValidPriority(priority string) bool {
	return priority == PriorityHigh || priority == PriorityMedium || priority == PriorityLow
}

type Task struct {
	TaskID      int        `gorm:"column:task_id;primaryKey;autoIncrement" json:"id"`
	BoardID     int        `gorm:"column:board_id;not null;index:idx_tasks_partition" json:"board_id"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Status      string     `gorm:"column:status;type:varchar(20);default:'todo';not null;index:idx_tasks_partition" json:"status"`
	Priority    string     `gorm:"column:priority;type:varchar(10);default:'low';not null" json:"priority"`
	Position    int        `gorm:"column:position;not null" json:"position"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date"`
	CreatorID   *int       `gorm:"column:creator_id" json:"creator_id"`
	IsArchived  bool       `gorm:"column:is_archived;default:false" json:"is_archived"`
	Checklist   Checklist  `gorm:"column:checklist;serializer:json" json:"checklist"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	Board   Board   `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE" json:"-"`
	Creator *User   `gorm:"foreignKey:CreatorID;references:UserID" json:"-"`
	Labels  []Label `gorm:"many2many:task_labels;foreignKey:TaskID;joinForeignKey:TaskID;references:LabelID;joinReferences:LabelID" json:"labels,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
