package nba

// Wire types for the upstream NBA statistics API.

// Team is an upstream franchise record.
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// Player is an upstream roster record.
type Player struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	JerseyNumber string `json:"jersey_number"`
	Team         *Team  `json:"team"`
}

// Game is an upstream game record.
type Game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Season           int    `json:"season"`
	Status           string `json:"status"`
	Period           int    `json:"period"`
	Time             string `json:"time"`
	Postseason       bool   `json:"postseason"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	HomeTeam         Team   `json:"home_team"`
	VisitorTeam      Team   `json:"visitor_team"`
}

// Stat is an upstream per-player box-score record.
type Stat struct {
	ID       int    `json:"id"`
	Min      string `json:"min"`
	Pts      int    `json:"pts"`
	Oreb     int    `json:"oreb"`
	Dreb     int    `json:"dreb"`
	Reb      int    `json:"reb"`
	Ast      int    `json:"ast"`
	Stl      int    `json:"stl"`
	Blk      int    `json:"blk"`
	Turnover int    `json:"turnover"`
	Pf       int    `json:"pf"`
	Fgm      int    `json:"fgm"`
	Fga      int    `json:"fga"`
	Fg3m     int    `json:"fg3m"`
	Fg3a     int    `json:"fg3a"`
	Ftm      int    `json:"ftm"`
	Fta      int    `json:"fta"`
	Player   Player `json:"player"`
	Team     Team   `json:"team"`
	Game     Game   `json:"game"`
}

type listMeta struct {
	NextCursor *int `json:"next_cursor"`
	PerPage    int  `json:"per_page"`
}

type teamsResponse struct {
	Data []Team   `json:"data"`
	Meta listMeta `json:"meta"`
}

type gamesResponse struct {
	Data []Game   `json:"data"`
	Meta listMeta `json:"meta"`
}

type statsResponse struct {
	Data []Stat   `json:"data"`
	Meta listMeta `json:"meta"`
}
