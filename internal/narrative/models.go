package narrative

import (
	"errors"
	"fmt"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

var (
	// ErrMissingAPIKey is returned when the narrator has no API key configured
	ErrMissingAPIKey = errors.New("narrator API key not configured")
	// ErrEmptyCompletion is returned when the model produced no usable text
	ErrEmptyCompletion = errors.New("empty completion from narrator API")
)

const (
	AuthorAI       = "AI Narrator"
	AuthorTemplate = "Fantasy Bot"
)

// Narrative is a weekly recap article
type Narrative struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Highlights      []string `json:"highlights"`
	NextWeekPreview string   `json:"nextWeekPreview"`
	SocialShareText string   `json:"socialShareText"`
	WordCount       int      `json:"wordCount"`
	Author          string   `json:"author"`
	PublishDate     string   `json:"publishDate"`
	Week            int      `json:"week"`
	Season          string   `json:"season"`
}

// Archive is every generated narrative keyed by week number
type Archive struct {
	CurrentWeek   int                  `json:"currentWeek"`
	LastGenerated string               `json:"lastGenerated"`
	Narratives    map[string]Narrative `json:"narratives"`
}

// Context is the analyzed state of the league that a narrative is written from
type Context struct {
	Week       int
	Season     string
	LeagueName string
	Players    []league.PlayerStanding

	MostWins     *league.PlayerStanding
	MostLosses   *league.PlayerStanding
	BestWinRate  *league.PlayerStanding
	WorstWinRate *league.PlayerStanding

	PerfectWeeks  []string
	DisasterWeeks []string
	TightRace     string
}

// Completion is the validated title and body of a model response
type Completion struct {
	Title   string
	Content string
}

// APIError represents a non-200 response from the chat completions API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("narrator API error (status %d): %s", e.StatusCode, e.Message)
}
