package models

// Requests for HTTP endpoints. Defined in domain for consistency and reuse.

type LegacyStockRequest struct {
	Choice string `query:"choice" json:"choice"`
}

type StockSearchRequest struct {
	Query string `query:"q" json:"q"`
}

type SymbolRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=12"`
}

type HistoryRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=12"`
	Range  string `query:"range" json:"range" default:"1m" validate:"oneof=1d 1w 1m 3m 6m 1y all"`
}

type NewsRequest struct {
	Category string `query:"category" json:"category"`
}

type MoversRequest struct {
	Type string `query:"type" json:"type" default:"gainers" validate:"oneof=gainers losers"`
}
