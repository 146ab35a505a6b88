package postgres

import (
	"time"

	"github.com/statlinehq/statline/internal/domain/sport"
)

type sportTableModel struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Slug          string    `db:"slug"`
	ProviderAlias string    `db:"provider_alias"`
	Category      string    `db:"category"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type sportInsertModel struct {
	Name          string `db:"name"`
	Slug          string `db:"slug"`
	ProviderAlias string `db:"provider_alias"`
	Category      string `db:"category"`
	Active        bool   `db:"active"`
}

func sportFromRow(row sportTableModel) sport.Sport {
	return sport.Sport{
		ID:            row.ID,
		Name:          row.Name,
		Slug:          row.Slug,
		ProviderAlias: row.ProviderAlias,
		Category:      row.Category,
		Active:        row.Active,
	}
}
