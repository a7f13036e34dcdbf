package model

// Label is shared across tasks through the task_labels join table. Labels
// are deduplicated by (name, color): attaching an existing pair reuses the
// stored row.
type Label struct {
	LabelID int    `gorm:"column:label_id;primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_labels_name_color" json:"name"`
	Color   string `gorm:"column:color;type:varchar(20);not null;uniqueIndex:idx_labels_name_color" json:"color"`
}

func (Label) TableName() string {
	return "labels"
}
