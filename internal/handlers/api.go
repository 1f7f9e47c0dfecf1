package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"admin-pulse/internal/errors"
	"admin-pulse/internal/models"
	"admin-pulse/internal/observability"
	"admin-pulse/internal/services"
	"admin-pulse/internal/store"
)

const cacheHeader = "public, max-age=60"

type APIHandlers struct {
	store     *store.Store
	customers *services.CustomerDirectory
	ledger    *services.TransactionLedger
	analytics *services.VisitorAnalytics
	logger    *slog.Logger
}

func NewAPIHandlers(st *store.Store, customers *services.CustomerDirectory, ledger *services.TransactionLedger, analytics *services.VisitorAnalytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		store:     st,
		customers: customers,
		ledger:    ledger,
		analytics: analytics,
		logger:    logger,
	}
}

// listPayload distinguishes "zero matches" from "nothing loaded": Total is
// the size of the loaded set, Filtered the size of the derived view.
type listPayload struct {
	Items          any    `json:"items"`
	Total          int    `json:"total"`
	Filtered       int    `json:"filtered"`
	SortColumn     string `json:"sort_column,omitempty"`
	SortDescending bool   `json:"sort_descending,omitempty"`
}

// customerFilterFromQuery maps query parameters to a filter spec. An absent
// plan parameter means the UI default of every box checked; a present but
// valueless one means nothing is checked and matches nothing.
func customerFilterFromQuery(q url.Values) services.CustomerFilter {
	f := services.CustomerFilter{
		Plans:  services.AllPlans(),
		Search: q.Get("q"),
	}
	if _, ok := q["plan"]; ok {
		f.Plans = nonEmpty(q["plan"])
	}
	return f
}

func transactionFilterFromQuery(q url.Values) services.TransactionFilter {
	f := services.TransactionFilter{
		Plans:    services.AllTransactionPlans(),
		Statuses: services.AllStatuses(),
		Search:   q.Get("q"),
	}
	if _, ok := q["plan"]; ok {
		f.Plans = nonEmpty(q["plan"])
	}
	if _, ok := q["status"]; ok {
		f.Statuses = nonEmpty(q["status"])
	}
	return f
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *APIHandlers) failed(w http.ResponseWriter, r *http.Request, dataset string) bool {
	msg := h.store.Failure(dataset)
	if msg == "" {
		return false
	}
	requestID := observability.GetRequestID(r.Context())
	errors.WriteError(w, h.logger, errors.ServiceUnavailable(msg), requestID)
	return true
}

func (h *APIHandlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetUsers) {
		return
	}

	q := r.URL.Query()
	rows := h.customers.ApplyFilter(customerFilterFromQuery(q))

	if col := q.Get("sort"); col != "" {
		if dir := q.Get("dir"); dir != "" {
			rows = h.customers.SetSort(col, dir == "desc")
		} else {
			rows = h.customers.SortBy(col)
		}
	}

	column, descending := h.customers.Sort()
	summary := h.customers.Summary()

	errors.WriteSuccessWithHeaders(w, listPayload{
		Items:          rows,
		Total:          summary.Total,
		Filtered:       len(rows),
		SortColumn:     column,
		SortDescending: descending,
	}, map[string]string{"Cache-Control": cacheHeader})
}

func (h *APIHandlers) HandleCustomer(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetUsers) {
		return
	}

	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("customer id must be an integer"), requestID)
		return
	}

	user, ok := h.customers.Lookup(id)
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("customer not found"), requestID)
		return
	}

	errors.WriteSuccess(w, user)
}

func (h *APIHandlers) HandleCustomerSummary(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetUsers) {
		return
	}
	errors.WriteSuccess(w, h.customers.Summary())
}

func (h *APIHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetTransactions) {
		return
	}

	rows := h.ledger.ApplyFilter(transactionFilterFromQuery(r.URL.Query()))
	summary := h.ledger.Summary()

	errors.WriteSuccessWithHeaders(w, listPayload{
		Items:    rows,
		Total:    summary.Total,
		Filtered: len(rows),
	}, map[string]string{"Cache-Control": cacheHeader})
}

func (h *APIHandlers) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetTransactions) {
		return
	}

	requestID := observability.GetRequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("transaction id must be an integer"), requestID)
		return
	}

	tx, ok := h.ledger.Lookup(id)
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("transaction not found"), requestID)
		return
	}

	errors.WriteSuccess(w, tx)
}

func (h *APIHandlers) HandleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetTransactions) {
		return
	}
	errors.WriteSuccess(w, h.ledger.Summary())
}

type visitsPayload struct {
	Stats  models.VisitorStats  `json:"stats"`
	Series models.ChartSeries   `json:"series"`
	Days   []models.DailyBucket `json:"days"`
}

func (h *APIHandlers) HandleVisits(w http.ResponseWriter, r *http.Request) {
	if h.failed(w, r, store.DatasetVisitors) {
		return
	}

	errors.WriteSuccessWithHeaders(w, visitsPayload{
		Stats:  h.analytics.Stats(),
		Series: h.analytics.Series(),
		Days:   h.analytics.Buckets(),
	}, map[string]string{"Cache-Control": cacheHeader})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.store.Stats())
}
