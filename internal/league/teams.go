package league

import (
	"fmt"
	"strings"
)

// TeamIDs maps NFL team abbreviations to ESPN team IDs
var TeamIDs = map[string]string{
	"ARI": "22", "ATL": "1", "BAL": "33", "BUF": "2",
	"CAR": "29", "CHI": "3", "CIN": "4", "CLE": "5",
	"DAL": "6", "DEN": "7", "DET": "8", "GB": "9",
	"HOU": "34", "IND": "11", "JAX": "30", "KC": "12",
	"LAC": "24", "LAR": "14", "LV": "13", "MIA": "15",
	"MIN": "16", "NE": "17", "NO": "18", "NYG": "19",
	"NYJ": "20", "PHI": "21", "PIT": "23", "SEA": "26",
	"SF": "25", "TB": "27", "TEN": "10", "WAS": "28",
}

// Divisions lists the teams in each NFL division
var Divisions = map[string][]string{
	"AFC_EAST":  {"BUF", "MIA", "NE", "NYJ"},
	"AFC_NORTH": {"BAL", "CIN", "CLE", "PIT"},
	"AFC_SOUTH": {"HOU", "IND", "JAX", "TEN"},
	"AFC_WEST":  {"DEN", "KC", "LAC", "LV"},
	"NFC_EAST":  {"DAL", "NYG", "PHI", "WAS"},
	"NFC_NORTH": {"CHI", "DET", "GB", "MIN"},
	"NFC_SOUTH": {"ATL", "CAR", "NO", "TB"},
	"NFC_WEST":  {"ARI", "LAR", "SEA", "SF"},
}

// DivisionOf returns the division a team plays in, or "" if unknown
func DivisionOf(team string) string {
	for division, members := range Divisions {
		for _, member := range members {
			if member == team {
				return division
			}
		}
	}
	return ""
}

// IsDivisionalRival reports whether two different teams share a division
func IsDivisionalRival(team1, team2 string) bool {
	if team1 == team2 {
		return false
	}
	division := DivisionOf(team1)
	return division != "" && division == DivisionOf(team2)
}

// TeamLogoURL returns the ESPN CDN logo for a team, or "" for an unknown abbreviation
func TeamLogoURL(abbreviation string) string {
	if _, ok := TeamIDs[abbreviation]; !ok {
		return ""
	}
	return fmt.Sprintf("https://a.espncdn.com/i/teamlogos/nfl/500/%s.png", strings.ToLower(abbreviation))
}
