// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// JobPostedEvent is published whenever a user creates a new job listing.
// It feeds the posting log and any future moderation tooling.
type JobPostedEvent struct {
	JobID    uint64  `json:"job_id"`
	UserID   uint64  `json:"user_id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	City     string  `json:"city"`
	Price    float64 `json:"price"`
	PostedAt string  `json:"posted_at"`
}
