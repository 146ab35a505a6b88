package apisports

import (
	"regexp"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

var yearRegex = regexp.MustCompile(`\d{4}`)

// leagueItem covers both catalog shapes: basketball flattens the league
// fields, football nests them under "league".
type leagueItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	League  *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []seasonItem `json:"seasons"`
}

type seasonItem struct {
	Year   int      `json:"year"`
	Season flexYear `json:"season"`
}

func (s seasonItem) year() int {
	if s.Year > 0 {
		return s.Year
	}
	return int(s.Season)
}

// flexYear decodes 2025 as well as "2025-2026" (the first year wins).
type flexYear int

func (f *flexYear) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if match := yearRegex.FindString(trimmed); match != "" {
		value, err := strconv.Atoi(match)
		if err != nil {
			return err
		}
		*f = flexYear(value)
		return nil
	}
	*f = 0
	return nil
}

type teamDetail struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Code     string      `json:"code"`
	Country  flexCountry `json:"country"`
	Founded  int         `json:"founded"`
	National bool        `json:"national"`
	Logo     string      `json:"logo"`
}

// flexCountry decodes both country encodings: a bare name string or an
// object carrying a "name" key.
type flexCountry string

func (f *flexCountry) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Name string `json:"name"`
		}
		if err := sonic.Unmarshal(data, &obj); err != nil {
			return err
		}
		*f = flexCountry(obj.Name)
		return nil
	}
	var text string
	if err := sonic.Unmarshal(data, &text); err != nil {
		return err
	}
	*f = flexCountry(text)
	return nil
}

// teamItem covers both roster shapes: football nests the team under "team"
// with a sibling "venue", basketball flattens the fields.
type teamItem struct {
	teamDetail
	Team  *teamDetail `json:"team"`
	Venue venueItem   `json:"venue"`
}

type venueItem struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Surface  string `json:"surface"`
	Image    string `json:"image"`
}

type playerDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Nationality string `json:"nationality"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Photo       string `json:"photo"`
	Birth       struct {
		Date    string `json:"date"`
		Place   string `json:"place"`
		Country string `json:"country"`
	} `json:"birth"`
}

type playerItem struct {
	playerDetail
	Player     *playerDetail `json:"player"`
	Statistics []struct {
		Games struct {
			Position string     `json:"position"`
			Number   flexNumber `json:"number"`
		} `json:"games"`
	} `json:"statistics"`
}

// flexNumber keeps jersey numbers textual: "00" is distinct from 0 and some
// feeds send the value as a JSON number.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := sonic.Unmarshal(data, &text); err != nil {
			return err
		}
		*f = flexNumber(text)
		return nil
	}
	var number float64
	if err := sonic.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexNumber(strconv.FormatInt(int64(number), 10))
	return nil
}

func (f flexNumber) text() string {
	return string(f)
}
