package model

// ChecklistItem is one entry of a task's embedded checklist. Item ids are
// unique within their task only, assigned as max(existing)+1 and never
// reused.
type ChecklistItem struct {
	ID          int    `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"is_completed"`
}

// Checklist is the ordered item sequence stored as a JSON column on the
// tasks row. It is always read and written whole; mutations return a fresh
// slice and leave the receiver untouched.
type Checklist []ChecklistItem

// NextID returns the id the next appended item will get: 1 for an empty
// checklist, max(existing ids)+1 otherwise.
func (cl Checklist) NextID() int {
	max := 0
	for _, item := range cl {
		if item.ID > max {
			max = item.ID
		}
	}
	return max + 1
}

// Append returns a new checklist with an uncompleted item added at the end.
func (cl Checklist) Append(content string) Checklist {
	item := ChecklistItem{ID: cl.NextID(), Content: content}
	out := make(Checklist, 0, len(cl)+1)
	out = append(out, cl...)
	return append(out, item)
}

// Toggle returns a new checklist with the completion flag of the item with
// the given id flipped. The second return value is false when no item with
// that id exists; id, content and ordering are never changed.
func (cl Checklist) Toggle(id int) (Checklist, bool) {
	found := false
	out := make(Checklist, len(cl))
	for i, item := range cl {
		if item.ID == id {
			item.IsCompleted = !item.IsCompleted
			found = true
		}
		out[i] = item
	}
	return out, found
}
