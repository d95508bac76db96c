package entity

import "time"

// Post is a blog entry owned by exactly one user.
// DatePosted is set on creation and refreshed on every edit.
// Author is filled by queries that join the owner; it may be nil.
type Post struct {
	ID         int64
	Title      string
	Content    string
	DatePosted time.Time
	UserID     int64
	Author     *User
}

// OwnedBy reports whether userID is the post's owner.
func (p *Post) OwnedBy(userID int64) bool {
	return userID != 0 && p.UserID == userID
}
