package services

import (
	"log/slog"
	"strings"
	"sync"

	"admin-pulse/internal/models"
)

// TransactionFilter has two category dimensions combined with AND; within
// each, selected values combine with OR. Search matches the user name only.
type TransactionFilter struct {
	Plans    []string
	Statuses []string
	Search   string
}

// AllTransactionPlans is the view's initial plan checkbox state. The
// transactions view only sells paid plans.
func AllTransactionPlans() []string {
	return []string{models.PlanPro, models.PlanMax}
}

func AllStatuses() []string {
	return []string{models.StatusSuccess, models.StatusPending}
}

// TransactionLedger owns the loaded transaction set (already newest-first
// from the store) and the current filter selection.
type TransactionLedger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	all      []models.Transaction
	filtered []models.Transaction
	filter   TransactionFilter
}

func NewTransactionLedger(logger *slog.Logger) *TransactionLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionLedger{
		logger: logger,
		filter: TransactionFilter{
			Plans:    AllTransactionPlans(),
			Statuses: AllStatuses(),
		},
	}
}

func (l *TransactionLedger) SetData(txs []models.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.all = txs
	l.filtered = filterTransactions(l.all, l.filter)
	l.logger.Info("transaction ledger loaded", "total", len(txs))
}

// ApplyFilter replaces the active filter and re-derives the subset,
// preserving the ledger's newest-first order.
func (l *TransactionLedger) ApplyFilter(f TransactionFilter) []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = f
	l.filtered = filterTransactions(l.all, f)
	return l.filtered
}

func filterTransactions(txs []models.Transaction, f TransactionFilter) []models.Transaction {
	term := strings.ToLower(f.Search)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !matchesAny(f.Plans, tx.Plan) {
			continue
		}
		if !matchesAny(f.Statuses, tx.Status) {
			continue
		}
		if term != "" && !containsFold(tx.UserName, term) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (l *TransactionLedger) Filtered() []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filtered
}

func (l *TransactionLedger) Lookup(id int) (models.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, tx := range l.all {
		if tx.ID == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

// Summary counts run over the full set; only Filtered reflects the active
// filter. TotalAmount sums successful transactions only.
func (l *TransactionLedger) Summary() models.TransactionSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := models.TransactionSummary{
		Total:    len(l.all),
		Filtered: len(l.filtered),
	}
	for _, tx := range l.all {
		switch tx.Status {
		case models.StatusSuccess:
			summary.SuccessCount++
			summary.TotalAmount += tx.Amount
		case models.StatusPending:
			summary.PendingCount++
		}
	}
	return summary
}
