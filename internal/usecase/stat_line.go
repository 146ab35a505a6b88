package usecase

import "strings"

// statAlias maps one logical stat key to its upstream spellings, in lookup
// priority order. The first alias present in an athlete's row wins.
type statAlias struct {
	key     string
	aliases []string
}

var simpleStatAliases = []statAlias{
	{"min", []string{"minutes", "min"}},
	{"pts", []string{"points", "pts"}},
	{"reb", []string{"rebounds", "totalrebounds", "reb"}},
	{"ast", []string{"assists", "ast"}},
	{"stl", []string{"steals", "stl"}},
	{"blk", []string{"blocks", "blk"}},
	{"tov", []string{"turnovers", "tov", "to"}},
}

// compositeStatAliases render as "made/attempted". A pre-joined upstream
// value (like "7-15") is taken as-is; otherwise the composite is emitted only
// when both halves resolve.
var compositeStatAliases = []struct {
	key       string
	joined    []string
	made      []string
	attempted []string
}{
	{"fg", []string{"fieldgoalsmade-fieldgoalsattempted", "fg"}, []string{"fieldgoalsmade", "fgm"}, []string{"fieldgoalsattempted", "fga"}},
	{"fg3", []string{"threepointfieldgoalsmade-threepointfieldgoalsattempted", "3pt", "fg3"}, []string{"threepointfieldgoalsmade", "3pm", "fg3m"}, []string{"threepointfieldgoalsattempted", "3pa", "fg3a"}},
	{"ft", []string{"freethrowsmade-freethrowsattempted", "ft"}, []string{"freethrowsmade", "ftm"}, []string{"freethrowsattempted", "fta"}},
}

// extractAthleteLine searches the box score for the named athlete and
// returns their normalized stat line. An empty teamAbbr searches all teams.
func extractAthleteLine(summary GameSummary, teamAbbr, fullName string) (map[string]string, bool) {
	blocks := collectTeamBlocks(summary.Boxscore, teamAbbr)
	if len(blocks) == 0 && teamAbbr != "" {
		// Stale team link: fall back to every team in the game.
		blocks = collectTeamBlocks(summary.Boxscore, "")
	}

	for _, block := range blocks {
		for _, group := range block.Groups {
			for _, athlete := range group.Athletes {
				if !athleteMatches(athlete, fullName) {
					continue
				}
				raw := rawStatValues(group, athlete)
				if len(raw) == 0 {
					continue
				}
				return normalizeStatLine(raw), true
			}
		}
	}

	return nil, false
}

func athleteMatches(athlete AthleteLine, fullName string) bool {
	return personNamesLikelyMatch(fullName, athlete.DisplayName) ||
		(athlete.ShortName != "" && personNamesLikelyMatch(fullName, athlete.ShortName))
}

// collectTeamBlocks flattens both box-score variants into team stat blocks,
// optionally filtered by team abbreviation.
func collectTeamBlocks(box Boxscore, teamAbbr string) []TeamStatBlock {
	blocks := make([]TeamStatBlock, 0, len(box.Players)+len(box.Teams))
	for _, block := range box.Players {
		if teamAbbr == "" || strings.EqualFold(block.TeamAbbreviation, teamAbbr) {
			blocks = append(blocks, block)
		}
	}
	for _, teamBlock := range box.Teams {
		for _, block := range teamBlock.Players {
			abbr := block.TeamAbbreviation
			if abbr == "" {
				abbr = teamBlock.TeamAbbreviation
			}
			if teamAbbr == "" || strings.EqualFold(abbr, teamAbbr) {
				blocks = append(blocks, block)
			}
		}
	}
	return blocks
}

// rawStatValues flattens an athlete row into key->value form, zipping the
// group's shared labels against parallel values when the row carries no
// named pairs.
func rawStatValues(group AthleteStatGroup, athlete AthleteLine) map[string]string {
	raw := make(map[string]string, len(athlete.Named)+len(athlete.Values))
	for _, stat := range athlete.Named {
		if key := statKey(stat.Name); key != "" {
			raw[key] = stat.Value
		}
	}
	if len(raw) == 0 {
		for i, label := range group.Labels {
			if i >= len(athlete.Values) {
				break
			}
			if key := statKey(label); key != "" {
				raw[key] = athlete.Values[i]
			}
		}
	}
	return raw
}

func normalizeStatLine(raw map[string]string) map[string]string {
	line := make(map[string]string, len(simpleStatAliases)+len(compositeStatAliases))

	for _, alias := range simpleStatAliases {
		if value, ok := firstAlias(raw, alias.aliases); ok {
			line[alias.key] = value
		}
	}

	for _, alias := range compositeStatAliases {
		if value, ok := firstAlias(raw, alias.joined); ok {
			line[alias.key] = value
			continue
		}
		made, madeOK := firstAlias(raw, alias.made)
		attempted, attemptedOK := firstAlias(raw, alias.attempted)
		if madeOK && attemptedOK {
			line[alias.key] = made + "/" + attempted
		}
	}

	return line
}

func firstAlias(raw map[string]string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if value, ok := raw[alias]; ok && strings.TrimSpace(value) != "" {
			return value, true
		}
	}
	return "", false
}

func statKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
