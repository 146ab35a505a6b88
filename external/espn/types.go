package espn

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

type scoreboardEnvelope struct {
	Events []scoreboardEventItem `json:"events"`
}

type scoreboardEventItem struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Status       eventStatusItem   `json:"status"`
	Competitions []competitionItem `json:"competitions"`
}

type eventStatusItem struct {
	DisplayClock string `json:"displayClock"`
	Type         struct {
		State string `json:"state"`
	} `json:"type"`
}

type competitionItem struct {
	Competitors []competitorItem `json:"competitors"`
}

type competitorItem struct {
	HomeAway string  `json:"homeAway"`
	Winner   bool    `json:"winner"`
	Score    string  `json:"score"`
	Team     teamRef `json:"team"`
}

type teamRef struct {
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Logo         string `json:"logo"`
}

type summaryEnvelope struct {
	Boxscore boxscoreItem `json:"boxscore"`
}

type boxscoreItem struct {
	Players []playersBlock `json:"players"`
	Teams   []teamBoxItem  `json:"teams"`
}

type playersBlock struct {
	Team       teamRef         `json:"team"`
	Statistics []statGroupItem `json:"statistics"`
}

type teamBoxItem struct {
	Team    teamRef        `json:"team"`
	Players []playersBlock `json:"players"`
}

type statGroupItem struct {
	Labels   []string          `json:"labels"`
	Athletes []athleteLineItem `json:"athletes"`
}

type athleteLineItem struct {
	Athlete struct {
		DisplayName string `json:"displayName"`
		ShortName   string `json:"shortName"`
	} `json:"athlete"`
	Stats []flexStat `json:"stats"`
}

// flexStat absorbs both stat encodings in the wild: a bare string positioned
// against the group labels, or a {name, value} object.
type flexStat struct {
	Name  string
	Value string
}

func (f *flexStat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		}
		if err := sonic.Unmarshal(data, &obj); err != nil {
			return err
		}
		f.Name = obj.Name
		f.Value = anyToText(obj.Value)
		return nil
	}

	var text string
	if err := sonic.Unmarshal(data, &text); err != nil {
		return err
	}
	f.Name = ""
	f.Value = text
	return nil
}

func anyToText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		raw, err := sonic.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

type teamsEnvelope struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team teamCatalogItem `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

type teamCatalogItem struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"displayName"`
	Name           string     `json:"name"`
	Abbreviation   string     `json:"abbreviation"`
	Slug           string     `json:"slug"`
	Location       string     `json:"location"`
	Color          string     `json:"color"`
	AlternateColor string     `json:"alternateColor"`
	Logos          []logoItem `json:"logos"`
}

type logoItem struct {
	Href string `json:"href"`
}

type rosterEnvelope struct {
	Athletes []rosterEntry `json:"athletes"`
}

// rosterEntry is either an athlete itself or a positional group of athletes.
type rosterEntry struct {
	athleteItem
	Items []athleteDetail `json:"items"`
}

type athleteItem = athleteDetail

type athleteDetail struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	FullName      string  `json:"fullName"`
	DisplayName   string  `json:"displayName"`
	Jersey        string  `json:"jersey"`
	DateOfBirth   string  `json:"dateOfBirth"`
	DisplayHeight string  `json:"displayHeight"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Position      struct {
		Abbreviation string `json:"abbreviation"`
		Name         string `json:"name"`
	} `json:"position"`
	Headshot struct {
		Href string `json:"href"`
	} `json:"headshot"`
	BirthPlace birthPlaceItem `json:"birthPlace"`
}

type birthPlaceItem struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}
