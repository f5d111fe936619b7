package repository

import (
	"github.com/jmoiron/sqlx"

	"tradevault/internal/domain"
)

var tradeDescriptor = Descriptor[domain.Trade]{
	Entity: "trade",
	Table:  "trades",
	Prefix: "TRD",
	PayloadColumns: []string{
		"symbol",
		"side",
		"quantity",
		"price",
		"status",
		"settle_price",
		"settled_at",
	},
	Meta:     func(t *domain.Trade) *domain.VersionRow { return &t.VersionRow },
	Terminal: func(t *domain.Trade) bool { return t.Terminal() },
}

type TradeRepository struct {
	*Store[domain.Trade]
	*Queries[domain.Trade]
}

func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{
		Store:   NewStore(db, tradeDescriptor),
		Queries: NewQueries(db, tradeDescriptor),
	}
}
