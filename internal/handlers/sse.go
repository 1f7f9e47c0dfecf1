package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"admin-pulse/internal/format"
	"admin-pulse/internal/models"
	"admin-pulse/internal/services"
	"admin-pulse/internal/store"
)

const maxTableRows = 50

var tableFuncs = template.FuncMap{
	"dateUS": func(d models.Date) string { return format.DateUS(d.Time) },
	"dateGB": func(d models.Date) string { return format.DateGB(d.Time) },
	"money":  format.GroupedInt,
	"css":    func(s string) string { return strings.ToLower(strings.ReplaceAll(s, " ", "-")) },
}

var customerTableTemplate = template.Must(template.New("customerTable").Funcs(tableFuncs).Parse(`
<div id="customer-content">
{{if not .Rows}}<div class="no-results">No customers match the current filters.</div>{{else}}
<table class="data-table">
<thead><tr><th>ID</th><th>Name</th><th>Email</th><th>Plan</th><th>Status</th><th>Registered</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.ID}}</td>
<td>{{.Name}}</td>
<td>{{.Email}}</td>
<td><span class="plan-badge plan-{{css .Plan}}">{{.Plan}}</span></td>
<td><span class="status-badge status-{{css .Status}}">{{.Status}}</span></td>
<td>{{dateUS .RegistrationDate}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}
</div>`))

var transactionTableTemplate = template.Must(template.New("transactionTable").Funcs(tableFuncs).Parse(`
<div id="transaction-content">
{{if not .Rows}}<div class="no-results">No transactions match the current filters.</div>{{else}}
<table class="data-table">
<thead><tr><th>Code</th><th>Customer</th><th>Plan</th><th>Amount</th><th>Status</th><th>Date</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td><code>{{.TransactionCode}}</code></td>
<td>{{.UserName}}</td>
<td><span class="plan-badge plan-{{css .Plan}}">{{.Plan}}</span></td>
<td class="amount">{{money .Amount}} VND</td>
<td><span class="status-badge status-{{css .Status}}">{{.Status}}</span></td>
<td>{{dateGB .TransactionDate}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}
</div>`))

var statCardsTemplate = template.Must(template.New("statCards").Parse(`
<div id="analytics-cards">
<div class="stat-card"><div class="stat-value">{{.TotalVisits}}</div><div class="stat-label">Total Visits</div></div>
<div class="stat-card"><div class="stat-value">{{.AveragePerDay}}</div><div class="stat-label">Avg / Day ({{.DaysTracked}} days)</div></div>
<div class="stat-card"><div class="stat-value">{{.GrowthText}}</div><div class="stat-label">{{.TrendText}}</div></div>
<div class="stat-card"><div class="stat-value">{{.PeakCount}}</div><div class="stat-label">Peak{{if .PeakLabel}} on {{.PeakLabel}}{{end}}</div></div>
</div>`))

// filterSignals mirrors the page's datastar signal names. Nil slices mean
// the client sent no checkbox state at all; empty slices mean every box is
// cleared and match nothing.
type filterSignals struct {
	Q        string   `json:"q"`
	Plans    []string `json:"plans"`
	Statuses []string `json:"statuses"`
}

type SSEHandlers struct {
	store     *store.Store
	customers *services.CustomerDirectory
	ledger    *services.TransactionLedger
	analytics *services.VisitorAnalytics
	logger    *slog.Logger
}

func NewSSEHandlers(st *store.Store, customers *services.CustomerDirectory, ledger *services.TransactionLedger, analytics *services.VisitorAnalytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		store:     st,
		customers: customers,
		ledger:    ledger,
		analytics: analytics,
		logger:    logger,
	}
}

// patchFailure replaces the view's content region with the fixed load-error
// message. Terminal: the client gets no data and no retry hint.
func (h *SSEHandlers) patchFailure(sse *datastar.ServerSentEventGenerator, region, msg string) {
	sse.PatchElements(fmt.Sprintf(`<div id=%q><div class="load-error">%s</div></div>`, region, template.HTMLEscapeString(msg)))
}

func (h *SSEHandlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if msg := h.store.Failure(store.DatasetUsers); msg != "" {
		h.patchFailure(sse, "customer-content", msg)
		return
	}

	q := r.URL.Query()
	f := customerFilterFromQuery(q)
	var sig filterSignals
	if err := datastar.ReadSignals(r, &sig); err == nil && sig.Plans != nil {
		f = services.CustomerFilter{Plans: sig.Plans, Search: sig.Q}
	}
	rows := h.customers.ApplyFilter(f)
	if col := q.Get("sort"); col != "" {
		rows = h.customers.SortBy(col)
	}

	html, err := renderRows(customerTableTemplate, clipUsers(rows))
	if err != nil {
		h.logger.Error("render customer table", "error", err)
		return
	}
	sse.PatchElements(html)

	h.patchSignals(sse, map[string]any{"customerSummary": h.customers.Summary()})
	flush(w)
}

func (h *SSEHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if msg := h.store.Failure(store.DatasetTransactions); msg != "" {
		h.patchFailure(sse, "transaction-content", msg)
		return
	}

	f := transactionFilterFromQuery(r.URL.Query())
	var sig filterSignals
	if err := datastar.ReadSignals(r, &sig); err == nil && sig.Plans != nil && sig.Statuses != nil {
		f = services.TransactionFilter{Plans: sig.Plans, Statuses: sig.Statuses, Search: sig.Q}
	}
	rows := h.ledger.ApplyFilter(f)

	html, err := renderRows(transactionTableTemplate, clipTransactions(rows))
	if err != nil {
		h.logger.Error("render transaction table", "error", err)
		return
	}
	sse.PatchElements(html)

	h.patchSignals(sse, map[string]any{"transactionSummary": h.ledger.Summary()})
	flush(w)
}

// HandleAnalytics pushes the stat cards and the chart series. The chart
// collaborator reads chartLabels/chartValues and replaces its previous
// instance on every patch.
func (h *SSEHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if msg := h.store.Failure(store.DatasetVisitors); msg != "" {
		h.patchFailure(sse, "analytics-cards", msg)
		return
	}

	stats := h.analytics.Stats()
	series := h.analytics.Series()

	var buf strings.Builder
	if err := statCardsTemplate.Execute(&buf, statCardView(stats)); err != nil {
		h.logger.Error("render stat cards", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	h.patchSignals(sse, map[string]any{
		"chartLabels":  series.Labels,
		"chartValues":  series.Values,
		"visitorStats": stats,
	})
	flush(w)
}

type statCards struct {
	TotalVisits   int
	AveragePerDay int
	DaysTracked   int
	GrowthText    string
	TrendText     string
	PeakCount     int
	PeakLabel     string
}

func statCardView(stats models.VisitorStats) statCards {
	view := statCards{
		TotalVisits:   stats.TotalVisits,
		AveragePerDay: stats.AveragePerDay,
		DaysTracked:   stats.DaysTracked,
		PeakCount:     stats.PeakCount,
		PeakLabel:     stats.PeakLabel,
	}
	switch stats.Growth {
	case models.GrowthGrowing:
		view.GrowthText = fmt.Sprintf("+%d%%", stats.GrowthPercent)
		view.TrendText = "Growing compared to previous period"
	case models.GrowthDeclining:
		view.GrowthText = fmt.Sprintf("%d%%", stats.GrowthPercent)
		view.TrendText = "Declining compared to previous period"
	case models.GrowthStable:
		view.GrowthText = "0%"
		view.TrendText = "Stable compared to previous period"
	default:
		view.GrowthText = "N/A"
		view.TrendText = "Not enough data for comparison"
	}
	return view
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	data, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	sse.PatchSignals(data)
}

type rowsData struct {
	Rows any
}

func renderRows(tmpl *template.Template, rows any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, rowsData{Rows: rows})
	return buf.String(), err
}

func clipUsers(rows []models.User) []models.User {
	if len(rows) > maxTableRows {
		return rows[:maxTableRows]
	}
	return rows
}

func clipTransactions(rows []models.Transaction) []models.Transaction {
	if len(rows) > maxTableRows {
		return rows[:maxTableRows]
	}
	return rows
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
