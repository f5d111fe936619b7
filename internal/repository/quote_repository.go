package repository

import (
	"github.com/jmoiron/sqlx"

	"tradevault/internal/domain"
)

// Quotes have no Terminal predicate: they are superseded, never closed.
var quoteDescriptor = Descriptor[domain.Quote]{
	Entity: "quote",
	Table:  "quotes",
	Prefix: "QUO",
	PayloadColumns: []string{
		"symbol",
		"bid",
		"ask",
		"source",
	},
	Meta: func(q *domain.Quote) *domain.VersionRow { return &q.VersionRow },
}

type QuoteRepository struct {
	*Store[domain.Quote]
	*Queries[domain.Quote]
}

func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{
		Store:   NewStore(db, quoteDescriptor),
		Queries: NewQueries(db, quoteDescriptor),
	}
}
