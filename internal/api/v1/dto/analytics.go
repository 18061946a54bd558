package dto

import "time"

// AnalyticsResponseDTO is one per-platform counter row for a video
type AnalyticsResponseDTO struct {
	ID             string    `json:"id"`
	VideoID        string    `json:"video_id"`
	Views          int       `json:"views"`
	Likes          int       `json:"likes"`
	Shares         int       `json:"shares"`
	Comments       int       `json:"comments"`
	EngagementRate float64   `json:"engagement_rate"`
	Platform       string    `json:"platform"`
	Date           time.Time `json:"date"`
}
