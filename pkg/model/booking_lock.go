package model

import "time"

// BookingLock is an advisory lock keyed by slot coordinates. The TTL index
// on expires_at reaps locks abandoned by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Date      string    `bson:"date" json:"date"`
	StartTime string    `bson:"start_time" json:"start_time"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}
