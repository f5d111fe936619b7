package repository

import (
	"github.com/jmoiron/sqlx"

	"tradevault/internal/domain"
)

var positionDescriptor = Descriptor[domain.Position]{
	Entity: "position",
	Table:  "positions",
	Prefix: "POS",
	PayloadColumns: []string{
		"symbol",
		"side",
		"quantity",
		"entry_price",
		"price",
		"strategy",
		"status",
		"exit_price",
		"closed_at",
	},
	Meta:     func(p *domain.Position) *domain.VersionRow { return &p.VersionRow },
	Terminal: func(p *domain.Position) bool { return p.Terminal() },
}

type PositionRepository struct {
	*Store[domain.Position]
	*Queries[domain.Position]
}

func NewPositionRepository(db *sqlx.DB) *PositionRepository {
	return &PositionRepository{
		Store:   NewStore(db, positionDescriptor),
		Queries: NewQueries(db, positionDescriptor),
	}
}
