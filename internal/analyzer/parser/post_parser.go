package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/sentiment"
	"golang-stock-sentiment/internal/entity"
)

// ParseError reports a raw record that cannot become a Post. It is local to that record.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse post: field %q %s", e.Field, e.Reason)
}

var deepAnalysisMarkers = []string{"dd", "due diligence"}

// PostParser converts raw source records into Posts.
type PostParser interface {
	Parse(raw dto.RawRecord) (entity.Post, error)
}

type postParser struct {
	scorer sentiment.Scorer
}

// NewPostParser creates a parser that scores posts with scorer.
func NewPostParser(scorer sentiment.Scorer) PostParser {
	return &postParser{scorer: scorer}
}

// Parse validates raw and builds a Post with its unweighted sentiment.
// title, score and subreddit are required; everything else defaults to zero values.
func (p *postParser) Parse(raw dto.RawRecord) (entity.Post, error) {
	title, err := requiredString(raw, "title")
	if err != nil {
		return entity.Post{}, err
	}
	score, err := requiredInt(raw, "score")
	if err != nil {
		return entity.Post{}, err
	}
	source, err := requiredString(raw, "subreddit")
	if err != nil {
		return entity.Post{}, err
	}

	comments, _ := optionalInt(raw, "num_comments")
	if comments < 0 {
		comments = 0
	}

	post := entity.Post{
		Title:       title,
		Body:        optionalString(raw, "selftext"),
		Score:       score,
		NumComments: comments,
		CreatedUTC:  timestamp(raw["created_utc"]),
		Author:      optionalString(raw, "author"),
		Source:      source,
		URL:         optionalString(raw, "url"),
	}
	post.IsDeepAnalysis = IsDeepAnalysis(post.Title)
	post.Sentiment = p.scorer.Score(post.Title + " " + post.Body)

	return post, nil
}

// IsDeepAnalysis reports whether title marks a thorough write-up.
func IsDeepAnalysis(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range deepAnalysisMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func requiredString(raw dto.RawRecord, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", &ParseError{Field: key, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParseError{Field: key, Reason: fmt.Sprintf("has type %T, want string", v)}
	}
	return s, nil
}

func requiredInt(raw dto.RawRecord, key string) (int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, &ParseError{Field: key, Reason: "is missing"}
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &ParseError{Field: key, Reason: fmt.Sprintf("has non-integer value %v", v)}
	}
	return n, nil
}

func optionalString(raw dto.RawRecord, key string) string {
	s, _ := raw[key].(string)
	return s
}

func optionalInt(raw dto.RawRecord, key string) (int, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false
	}
	return toInt(v)
}

// toInt accepts the integer encodings a JSON decoder may hand us. Fractional
// floats and values outside the int range are rejected.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive
		if n < math.MinInt || n >= -math.MinInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return toInt(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	default:
		return 0, false
	}
}

// timestamp renders created_utc as an epoch-seconds string regardless of encoding.
func timestamp(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
