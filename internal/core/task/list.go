package task

import "sort"

// Item is one task as seen by the gate.
type Item struct {
	ID        string
	Position  int
	Completed bool
}

// TaskList is the ordered task list of a single stage.
// Ordering is by Position, ties broken by ID.
type TaskList struct {
	items []Item
}

// NewTaskList sorts items by position.
func NewTaskList(items []Item) TaskList {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})
	return TaskList{items: sorted}
}

// Len returns the number of tasks.
func (l TaskList) Len() int { return len(l.items) }

// At returns the task at index i.
func (l TaskList) At(i int) Item { return l.items[i] }

// Items returns a copy of the ordered tasks.
func (l TaskList) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// IndexOf returns the index of id, or -1.
func (l TaskList) IndexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// IsLast reports whether id is the final task of the stage.
func (l TaskList) IsLast(id string) bool {
	n := len(l.items)
	return n > 0 && l.items[n-1].ID == id
}

// Completed returns the completion flags in order.
func (l TaskList) Completed() []bool {
	flags := make([]bool, len(l.items))
	for i, it := range l.items {
		flags[i] = it.Completed
	}
	return flags
}

// NextPosition returns the position a newly added task should take.
func (l TaskList) NextPosition() int {
	if len(l.items) == 0 {
		return 1
	}
	return l.items[len(l.items)-1].Position + 1
}
