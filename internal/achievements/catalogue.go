package achievements

// Rarity tiers, rarest first
const (
	Legendary = "legendary"
	Epic      = "epic"
	Rare      = "rare"
	Uncommon  = "uncommon"
	Common    = "common"
)

var Rarities = []string{Legendary, Epic, Rare, Uncommon, Common}

// Achievement IDs
const (
	FirstWin          = "first_win"
	PerfectWeek       = "perfect_week"
	DisasterWeek      = "disaster_week"
	ComebackKid       = "comeback_kid"
	EarlyLeader       = "early_leader"
	WinStreak         = "win_streak"
	LossStreak        = "loss_streak"
	UnderdogVictory   = "underdog_victory"
	ConsistencyKing   = "consistency_king"
	Domination        = "domination"
	BalancedPortfolio = "balanced_portfolio"
	RivalryMaster     = "rivalry_master"
)

// Achievement describes a badge and who holds it
type Achievement struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Rarity      string   `json:"rarity"`
	Holders     []string `json:"holders"`
}

// Catalogue returns a fresh copy of every achievement definition with empty holder lists
func Catalogue() map[string]Achievement {
	defs := map[string]Achievement{
		FirstWin:          {Name: "First Victory", Description: "Achieve your first team win of the season", Icon: "🏆", Rarity: Common},
		PerfectWeek:       {Name: "Perfect Week", Description: "All 4 of your teams win in the same week", Icon: "💎", Rarity: Legendary},
		DisasterWeek:      {Name: "Disaster Week", Description: "All 4 of your teams lose in the same week", Icon: "💀", Rarity: Epic},
		ComebackKid:       {Name: "Comeback Kid", Description: "Rise from last place to first place", Icon: "🚀", Rarity: Rare},
		EarlyLeader:       {Name: "Early Leader", Description: "Lead the wins competition after week 1", Icon: "⚡", Rarity: Uncommon},
		WinStreak:         {Name: "Win Streak", Description: "Have 5 consecutive team wins", Icon: "🔥", Rarity: Rare},
		LossStreak:        {Name: "Loss Streak", Description: "Have 5 consecutive team losses (sympathy badge)", Icon: "❄️", Rarity: Rare},
		UnderdogVictory:   {Name: "Underdog Victory", Description: "Your team with the worst record beats a top team", Icon: "🐶", Rarity: Uncommon},
		ConsistencyKing:   {Name: "Consistency King", Description: "Maintain a win rate between 40-60% all season", Icon: "⚖️", Rarity: Rare},
		Domination:        {Name: "Total Domination", Description: "Lead both wins and losses competitions simultaneously", Icon: "👑", Rarity: Legendary},
		BalancedPortfolio: {Name: "Balanced Portfolio", Description: "Each of your 4 teams has at least 1 win and 1 loss", Icon: "⚡", Rarity: Common},
		RivalryMaster:     {Name: "Rivalry Master", Description: "Your teams beat division rivals 5+ times", Icon: "⚔️", Rarity: Epic},
	}
	for id, def := range defs {
		def.Holders = []string{}
		defs[id] = def
	}
	return defs
}
