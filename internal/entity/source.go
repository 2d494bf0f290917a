package entity

// SourceKind selects the client used to retrieve a source's records.
type SourceKind string

const (
	SourceKindReddit SourceKind = "reddit"
	SourceKindRSS    SourceKind = "rss"
)

// Source is one configured content origin. It is read-only after startup.
type Source struct {
	Name     string     `mapstructure:"name" json:"name"`
	Kind     SourceKind `mapstructure:"kind" json:"kind"`
	Weight   float64    `mapstructure:"weight" json:"weight"`
	MinScore int        `mapstructure:"min_score" json:"min_score"`
	// FeedURL is only used by rss sources; "{ticker}" is replaced with the query symbol.
	FeedURL  string     `mapstructure:"feed_url" json:"feed_url,omitempty"`
}
