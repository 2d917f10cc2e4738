package domain

import "time"

// LikeTarget identifies which entity kind a like applies to
type LikeTarget string

const (
	LikeTargetPost    LikeTarget = "post"
	LikeTargetComment LikeTarget = "comment"
)

// Like is the durable fact that a user likes a target.
// (UserID, TargetID) is unique per target table; a user can like a
// given post or comment at most once.
type Like struct {
	UserID    string    `json:"user_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
