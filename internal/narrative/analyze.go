package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// TightRaceMargin is the largest wins gap between first and second that counts as a tight race
const TightRaceMargin = 2

// Analyze picks out the storylines of the week from the wins leaderboard
func Analyze(leagueName, season string, roster league.Roster, teams map[string]league.TeamRecord, standings []league.PlayerStanding, week int) Context {
	c := Context{
		Week:       week,
		Season:     season,
		LeagueName: leagueName,
		Players:    standings,
	}
	if len(standings) == 0 {
		return c
	}

	byWins := sortedCopy(standings, func(a, b league.PlayerStanding) bool { return a.TotalWins > b.TotalWins })
	byLosses := sortedCopy(standings, func(a, b league.PlayerStanding) bool { return a.TotalLosses > b.TotalLosses })
	byRate := sortedCopy(standings, func(a, b league.PlayerStanding) bool { return a.WinPercentage > b.WinPercentage })

	c.MostWins = &byWins[0]
	c.MostLosses = &byLosses[0]
	c.BestWinRate = &byRate[0]
	c.WorstWinRate = &byRate[len(byRate)-1]

	for _, s := range standings {
		switch {
		case allLastGames(roster[s.PlayerID], teams, "W"):
			c.PerfectWeeks = append(c.PerfectWeeks, s.PlayerName)
		case allLastGames(roster[s.PlayerID], teams, "L"):
			c.DisasterWeeks = append(c.DisasterWeeks, s.PlayerName)
		}
	}

	if len(byWins) > 1 {
		gap := byWins[0].TotalWins - byWins[1].TotalWins
		if gap <= TightRaceMargin {
			c.TightRace = fmt.Sprintf("The wins competition is extremely tight with only %d wins separating first and second place!", gap)
		}
	}
	return c
}

func sortedCopy(in []league.PlayerStanding, less func(a, b league.PlayerStanding) bool) []league.PlayerStanding {
	out := make([]league.PlayerStanding, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// allLastGames reports whether every one of a player's teams finished its last game with result.
// A player without teams never qualifies.
func allLastGames(player league.Player, teams map[string]league.TeamRecord, result string) bool {
	if len(player.Teams) == 0 {
		return false
	}
	for _, abbr := range player.Teams {
		team, ok := teams[abbr]
		if !ok || team.LastGame == nil || team.LastGame.Result != result {
			return false
		}
	}
	return true
}

const systemPrompt = "You are a witty sports commentator writing weekly updates for a fantasy NFL league. " +
	"Write engaging, entertaining narratives that capture the drama and excitement of the competition. " +
	"Use humor and personality while staying factual about the data."

// BuildPrompt renders the user prompt sent to the model
func BuildPrompt(c Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a weekly narrative for %q fantasy NFL league, Week %d of the %s season.\n\n", c.LeagueName, c.Week, c.Season)

	b.WriteString("Current Standings:\n")
	for i, p := range c.Players {
		fmt.Fprintf(&b, "%d. %s: %dW-%dL (%.1f%%)\n", i+1, p.PlayerName, p.TotalWins, p.TotalLosses, p.WinPercentage*100)
	}

	b.WriteString("\nKey Storylines:\n")
	if c.MostWins != nil {
		fmt.Fprintf(&b, "- %s leads in total wins (%d)\n", c.MostWins.PlayerName, c.MostWins.TotalWins)
	}
	if c.MostLosses != nil {
		fmt.Fprintf(&b, "- %s leads in total losses (%d)\n", c.MostLosses.PlayerName, c.MostLosses.TotalLosses)
	}
	if len(c.PerfectWeeks) > 0 {
		fmt.Fprintf(&b, "- Perfect weeks achieved by: %s\n", strings.Join(c.PerfectWeeks, ", "))
	}
	if len(c.DisasterWeeks) > 0 {
		fmt.Fprintf(&b, "- Disaster weeks suffered by: %s\n", strings.Join(c.DisasterWeeks, ", "))
	}
	if c.TightRace != "" {
		fmt.Fprintf(&b, "- %s\n", c.TightRace)
	}

	b.WriteString(`
Write a compelling 2-3 paragraph narrative with:
1. A catchy title (on first line)
2. Opening paragraph setting the scene
3. Key developments and storylines
4. Looking ahead commentary

Keep it fun, engaging, and around 200-300 words total.`)
	return b.String()
}

// ParseCompletion splits model output into a title (first non-blank line, markdown heading
// markers removed) and the remaining lines as paragraphs.
func ParseCompletion(text string) (Completion, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return Completion{}, ErrEmptyCompletion
	}

	title := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[0]), "#"))
	title = strings.TrimSpace(strings.Trim(title, "*"))
	content := strings.TrimSpace(strings.Join(lines[1:], "\n\n"))

	if title == "" {
		title = "Weekly Update"
	}
	if content == "" {
		content = "No narrative content generated."
	}
	return Completion{Title: title, Content: content}, nil
}
