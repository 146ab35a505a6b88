package sport

import "fmt"

const (
	CategoryTeam       = "team"
	CategoryIndividual = "individual"
)

// Sport is the root of the league/team/player hierarchy.
type Sport struct {
	ID            int64
	Name          string
	Slug          string
	ProviderAlias string
	Category      string
	Active        bool
}

func (s Sport) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("sport name is required")
	}
	if s.Slug == "" {
		return fmt.Errorf("sport slug is required")
	}
	switch s.Category {
	case CategoryTeam, CategoryIndividual:
	default:
		return fmt.Errorf("invalid sport category: %s", s.Category)
	}

	return nil
}
