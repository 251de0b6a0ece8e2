package domain

import (
	"time"
)

// Topic binds a human-readable category key to a destination: a group chat
// and a forum sub-thread where posts for that category are published.
type Topic struct {
	Key       string    `json:"key"`
	ChatID    int64     `json:"chat_id"`
	ThreadID  int       `json:"thread_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardTopicKey is the topic that receives monthly and yearly posts.
const LeaderboardTopicKey = "top5"
