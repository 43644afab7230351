package services

import (
	"github.com/shopspring/decimal"

	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// Classification is the stock verdict for one line.
// EvaluatedKg is the full request in create mode and the positive delta in edit mode.
type Classification struct {
	Severity    orderdomain.Severity
	EvaluatedKg decimal.Decimal
	AvailableKg decimal.Decimal
	MissingKg   decimal.Decimal
}

// Classify compares a requested quantity against available stock.
func Classify(requestedKg, availableKg decimal.Decimal) Classification {
	if availableKg.IsNegative() {
		availableKg = decimal.Zero
	}
	c := Classification{
		Severity:    orderdomain.SeveritySufficient,
		EvaluatedKg: requestedKg,
		AvailableKg: availableKg,
		MissingKg:   decimal.Zero,
	}
	if !requestedKg.IsPositive() || availableKg.GreaterThanOrEqual(requestedKg) {
		return c
	}
	c.MissingKg = requestedKg.Sub(availableKg)
	if availableKg.IsZero() {
		c.Severity = orderdomain.SeverityUnavailable
	} else {
		c.Severity = orderdomain.SeverityPartial
	}
	return c
}

// ClassifyEdit classifies only the increase over the previously persisted
// quantity. Reductions never need new stock.
func ClassifyEdit(requestedKg, persistedKg, availableKg decimal.Decimal) Classification {
	delta := requestedKg.Sub(persistedKg)
	if !delta.IsPositive() {
		return Classification{
			Severity:    orderdomain.SeveritySufficient,
			EvaluatedKg: delta,
			AvailableKg: availableKg,
			MissingKg:   decimal.Zero,
		}
	}
	return Classify(delta, availableKg)
}

// StockSufficiencyAdvisor classifies order lines against a stock snapshot.
// Without a persisted baseline it runs in create mode; with one, in edit mode.
type StockSufficiencyAdvisor struct {
	persisted map[models.LineKey]decimal.Decimal
}

// NewCreateAdvisor returns an advisor comparing full requested quantities.
func NewCreateAdvisor() *StockSufficiencyAdvisor {
	return &StockSufficiencyAdvisor{}
}

// NewEditAdvisor returns an advisor comparing deltas against the lines of the
// persisted order. Lines absent from it have a baseline of zero.
func NewEditAdvisor(persisted *models.Order) *StockSufficiencyAdvisor {
	base := make(map[models.LineKey]decimal.Decimal, len(persisted.Lines))
	for _, l := range persisted.Lines {
		base[l.Key()] = l.OrderedKg
	}
	return &StockSufficiencyAdvisor{persisted: base}
}

// EditMode reports whether the advisor compares deltas.
func (a *StockSufficiencyAdvisor) EditMode() bool {
	return a.persisted != nil
}

// ClassifyLine returns the verdict for one line.
func (a *StockSufficiencyAdvisor) ClassifyLine(line models.OrderLine, stock models.StockSnapshot) Classification {
	available := stock.Available(line.Key())
	if a.persisted == nil {
		return Classify(line.OrderedKg, available)
	}
	return ClassifyEdit(line.OrderedKg, a.persisted[line.Key()], available)
}

// CollectIssues returns every line classified partial or unavailable, in
// line order. An empty result means the order can be submitted directly.
func (a *StockSufficiencyAdvisor) CollectIssues(order *models.Order, stock models.StockSnapshot) []orderdomain.StockIssue {
	var issues []orderdomain.StockIssue
	for _, line := range order.Lines {
		c := a.ClassifyLine(line, stock)
		if c.Severity == orderdomain.SeveritySufficient {
			continue
		}
		issues = append(issues, orderdomain.StockIssue{
			ArticleID:    line.ArticleID,
			DepotID:      line.DepotID,
			ArticleLabel: line.ArticleLabel(),
			DepotLabel:   line.DepotLabel(),
			RequestedKg:  c.EvaluatedKg,
			AvailableKg:  c.AvailableKg,
			MissingKg:    c.MissingKg,
			Severity:     c.Severity,
		})
	}
	return issues
}
