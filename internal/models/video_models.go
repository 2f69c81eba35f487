package models

// CandidateVideo is one entry in a YouTube search result set. The identifier
// is the only required field; thumbnail and publish date may be empty.
type CandidateVideo struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
}
