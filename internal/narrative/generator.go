package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// Input is everything needed to write one week's narrative
type Input struct {
	LeagueName string
	Season     string
	Roster     league.Roster
	Teams      map[string]league.TeamRecord
	Standings  []league.PlayerStanding // wins leaderboard
	Week       int
}

// Generator writes weekly narratives with the model when available and from a template otherwise
type Generator struct {
	client      Client
	seasonWeeks int
	now         func() time.Time
	logger      *logrus.Logger
}

// NewGenerator creates a generator. A nil client always uses the template.
func NewGenerator(client Client, seasonWeeks int, logger *logrus.Logger) *Generator {
	if seasonWeeks <= 0 {
		seasonWeeks = league.SeasonWeeks
	}
	return &Generator{
		client:      client,
		seasonWeeks: seasonWeeks,
		now:         time.Now,
		logger:      logger,
	}
}

// Generate never fails: model errors are logged and the template narrative is returned instead.
func (g *Generator) Generate(ctx context.Context, in Input) Narrative {
	c := Analyze(in.LeagueName, in.Season, in.Roster, in.Teams, in.Standings, in.Week)

	if g.client != nil {
		n, err := g.fromModel(ctx, c)
		if err == nil {
			return n
		}
		g.logger.WithError(err).WithField("week", in.Week).Warn("Narrative generation failed, using template")
	}
	return g.Fallback(c)
}

func (g *Generator) fromModel(ctx context.Context, c Context) (Narrative, error) {
	text, err := g.client.Complete(ctx, systemPrompt, BuildPrompt(c))
	if err != nil {
		return Narrative{}, err
	}
	completion, err := ParseCompletion(text)
	if err != nil {
		return Narrative{}, err
	}
	return g.finish(c, Narrative{
		Title:      completion.Title,
		Content:    completion.Content,
		Highlights: highlights(c),
		Author:     AuthorAI,
	}), nil
}

// Fallback renders the template narrative for c
func (g *Generator) Fallback(c Context) Narrative {
	remaining := league.RemainingWeeks(g.seasonWeeks, c.Week)

	if c.MostWins == nil {
		return g.finish(c, Narrative{
			Title:      fmt.Sprintf("Week %d: The Season Awaits", c.Week),
			Content:    fmt.Sprintf("Week %d of the %s %s season is here, but no standings are available yet.", c.Week, c.Season, c.LeagueName),
			Highlights: []string{fmt.Sprintf("%d weeks remaining in the season", remaining)},
			Author:     AuthorTemplate,
		})
	}

	leader := c.Players[0]
	trailer := c.Players[len(c.Players)-1]
	second := 0
	if len(c.Players) > 1 {
		second = c.Players[1].TotalWins
	}

	content := strings.Join([]string{
		fmt.Sprintf("Week %d of the %s %s season has concluded with %s sitting atop the wins leaderboard with %d victories.",
			c.Week, c.Season, c.LeagueName, leader.PlayerName, leader.TotalWins),
		fmt.Sprintf("The competition remains fierce as teams battle for supremacy in both the wins and losses competitions. %s currently holds a %d win advantage over second place.",
			leader.PlayerName, leader.TotalWins-second),
		"Meanwhile, the losses competition sees its own drama unfolding. Every week brings new surprises as NFL teams deliver unexpected results, keeping our fantasy managers on their toes.",
		fmt.Sprintf("Looking ahead, with %d weeks remaining in the regular season, there's still plenty of time for dramatic shifts in the standings. Will %s maintain their lead, or will another competitor mount a comeback charge?",
			remaining, leader.PlayerName),
	}, "\n\n")

	return g.finish(c, Narrative{
		Title:   fmt.Sprintf("Week %d: %s Takes The Lead!", c.Week, leader.PlayerName),
		Content: content,
		Highlights: []string{
			fmt.Sprintf("%s leads with %d wins", leader.PlayerName, leader.TotalWins),
			fmt.Sprintf("%s needs to turn things around", trailer.PlayerName),
			fmt.Sprintf("%d weeks remaining in the season", remaining),
		},
		Author: AuthorTemplate,
	})
}

func (g *Generator) finish(c Context, n Narrative) Narrative {
	n.Week = c.Week
	n.Season = c.Season
	n.PublishDate = g.now().UTC().Format("2006-01-02")
	n.WordCount = len(strings.Fields(n.Content))
	n.NextWeekPreview = nextWeekPreview(c, league.RemainingWeeks(g.seasonWeeks, c.Week))
	n.SocialShareText = fmt.Sprintf("%s #%s", n.Title, hashtag(c.LeagueName))
	if n.Highlights == nil {
		n.Highlights = []string{}
	}
	return n
}

func highlights(c Context) []string {
	out := []string{}
	if c.MostWins != nil {
		out = append(out, fmt.Sprintf("%s leads with %d wins", c.MostWins.PlayerName, c.MostWins.TotalWins))
	}
	if c.MostLosses != nil {
		out = append(out, fmt.Sprintf("%s leads the losses race with %d", c.MostLosses.PlayerName, c.MostLosses.TotalLosses))
	}
	for _, name := range c.PerfectWeeks {
		out = append(out, fmt.Sprintf("%s posted a perfect week", name))
	}
	for _, name := range c.DisasterWeeks {
		out = append(out, fmt.Sprintf("%s suffered a disaster week", name))
	}
	if c.TightRace != "" {
		out = append(out, c.TightRace)
	}
	return out
}

func nextWeekPreview(c Context, remaining int) string {
	if remaining <= 0 {
		return "The regular season is over. Final standings are locked in."
	}
	if c.MostWins == nil {
		return fmt.Sprintf("Week %d kicks off soon.", c.Week+1)
	}
	return fmt.Sprintf("Week %d: can anyone catch %s? %d weeks remain.", c.Week+1, c.MostWins.PlayerName, remaining)
}

func hashtag(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "FantasyNFL"
	}
	return b.String()
}
