package models

import "github.com/shopspring/decimal"

// StockEntry is the commercially available quantity of an article in a depot.
type StockEntry struct {
	ArticleID   string          `json:"article_id"`
	DepotID     string          `json:"depot_id"`
	AvailableKg decimal.Decimal `json:"available_quantity_kg"`
}

// StockSnapshot is a read-only view of availability fetched from the inventory backend.
type StockSnapshot map[LineKey]decimal.Decimal

// NewStockSnapshot indexes entries by key. Repeated keys are summed.
func NewStockSnapshot(entries []StockEntry) StockSnapshot {
	s := make(StockSnapshot, len(entries))
	for _, e := range entries {
		k := LineKey{ArticleID: e.ArticleID, DepotID: e.DepotID}
		s[k] = s[k].Add(e.AvailableKg)
	}
	return s
}

// Available returns the available kg for key. Missing keys and negative
// balances count as zero.
func (s StockSnapshot) Available(key LineKey) decimal.Decimal {
	v, ok := s[key]
	if !ok || v.IsNegative() {
		return decimal.Zero
	}
	return v
}
