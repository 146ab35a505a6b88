package ncaa

type standingsEnvelope struct {
	Data []conferenceBlock `json:"data"`
}

type conferenceBlock struct {
	Conference string           `json:"conference"`
	Standings  []map[string]any `json:"standings"`
}

type scoreboardEnvelope struct {
	Games []gameWrapper `json:"games"`
}

type gameWrapper struct {
	Game gameItem `json:"game"`
}

type gameItem struct {
	GameID string   `json:"gameID"`
	Home   gameSide `json:"home"`
	Away   gameSide `json:"away"`
}

type gameSide struct {
	Score       string `json:"score"`
	Winner      bool   `json:"winner"`
	Logo        string `json:"logo"`
	Names       struct {
		Char6 string `json:"char6"`
		Short string `json:"short"`
		Seo   string `json:"seo"`
		Full  string `json:"full"`
	} `json:"names"`
	Conferences []struct {
		ConferenceName string `json:"conferenceName"`
		ConferenceSeo  string `json:"conferenceSeo"`
	} `json:"conferences"`
}
