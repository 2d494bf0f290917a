package entity

// Post is a normalized social-media post mentioning a ticker.
type Post struct {
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	Score          int     `json:"score"`
	NumComments    int     `json:"num_comments"`
	CreatedUTC     string  `json:"created_utc"`
	Author         string  `json:"author"`
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	IsDeepAnalysis bool    `json:"is_deep_analysis"`
	Sentiment      float64 `json:"sentiment"`
}
