package domain

import "time"

// Todo is one list item. OwnerID is stamped from the caller's session
// on insert and appears in every mutation predicate; a todo is never
// visible or mutable outside its owner.
type Todo struct {
	ID        string
	OwnerID   string
	Content   string
	Completed bool
	CreatedAt time.Time
}
