package model

import "time"

// Analytics holds aggregated performance counters per video and platform.
// Rows are written by the external analytics pipeline.
type Analytics struct {
	ID             string    `db:"id" json:"id"`
	VideoID        string    `db:"video_id" json:"video_id"`
	Views          int       `db:"views" json:"views"`
	Likes          int       `db:"likes" json:"likes"`
	Shares         int       `db:"shares" json:"shares"`
	Comments       int       `db:"comments" json:"comments"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	Platform       string    `db:"platform" json:"platform"`
	Date           time.Time `db:"date" json:"date"`
}
