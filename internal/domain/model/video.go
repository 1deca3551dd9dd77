package model

import "time"

// Video is a single search result as returned by the video platform.
// Values are never mutated after they are fetched.
type Video struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
	ChannelTitle string
}
