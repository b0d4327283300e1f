package espn

import "fmt"

// Scoreboard is the response of GET /scoreboard
type Scoreboard struct {
	Season struct {
		Year int `json:"year"`
		Type int `json:"type"`
	} `json:"season"`
	Week struct {
		Number int `json:"number"`
	} `json:"week"`
	Events []Event `json:"events"`
}

// Event is a single game on the scoreboard
type Event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []Competition `json:"competitions"`
}

type Competition struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Status      Status       `json:"status"`
	Competitors []Competitor `json:"competitors"`
}

type Status struct {
	Type struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		State       string `json:"state"` // "pre", "in" or "post"
		Completed   bool   `json:"completed"`
		Description string `json:"description"`
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
}

// Competitor is one side of a competition
type Competitor struct {
	ID       string `json:"id"`
	HomeAway string `json:"homeAway"`
	Winner   bool   `json:"winner"`
	Team     Team   `json:"team"`
	Score    string `json:"score"`
	Records  []struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Summary string `json:"summary"`
	} `json:"records"`
}

type Team struct {
	ID               string `json:"id"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Logo             string `json:"logo"`
}

// TeamSchedule is the response of GET /teams/{id}/schedule
type TeamSchedule struct {
	Team   Team            `json:"team"`
	Events []ScheduleEvent `json:"events"`
}

type ScheduleEvent struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Week struct {
		Number int `json:"number"`
	} `json:"week"`
	Competitions []struct {
		Status      Status `json:"status"`
		Competitors []struct {
			HomeAway string `json:"homeAway"`
			Team     Team   `json:"team"`
		} `json:"competitors"`
	} `json:"competitions"`
}

// APIError represents a non-200 response from the ESPN API
type APIError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ParseError reports a competitor whose data could not be turned into a team record
type ParseError struct {
	Team  string
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("team %s: invalid %s %q: %v", e.Team, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
