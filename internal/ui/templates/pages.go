// Package templates holds the page shells. They are hand-written
// templ.Component values: each page loads its data over the matching SSE
// endpoint via datastar, so the shells themselves carry no data.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func page(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<link rel="stylesheet" href="/static/styles.css">
</head>
<body>
<nav class="topnav">
<a href="/">Analytics</a>
<a href="/customers">Customers</a>
<a href="/transactions">Transactions</a>
</nav>
<main>%s</main>
</body>
</html>`, title, body)
		return err
	})
}

func Analytics() templ.Component {
	return page("Visitor Analytics", `
<h1>Visitor Analytics</h1>
<div data-on-load="@get('/sse/analytics')">
<div id="analytics-cards"><div class="loading">Loading analytics…</div></div>
<div class="chart-wrapper">
<canvas id="visitsChart"
  data-signals="{chartLabels: [], chartValues: []}"
  data-effect="renderVisitsChart($chartLabels, $chartValues)"></canvas>
</div>
</div>
<script>
let visitsChart = null;
// Re-invocation disposes of the previous chart instance first.
function renderVisitsChart(labels, values) {
  if (!labels.length) return;
  if (visitsChart) visitsChart.destroy();
  visitsChart = new Chart(document.getElementById('visitsChart'), {
    type: 'line',
    data: {labels: labels, datasets: [{label: 'Visits per Day', data: values}]},
    options: {responsive: true, scales: {y: {beginAtZero: true, ticks: {stepSize: 1}}}}
  });
}
</script>`)
}

func Customers() templ.Component {
	return page("Customers", `
<h1>Customers</h1>
<div data-signals="{q: '', plans: ['Free Plan','Pro Plan','Max Plan']}">
<div class="filters" data-on-change="@get('/sse/customers', {filterSignals: {include: /^(q|plans)/}})">
<label><input type="checkbox" value="Free Plan" data-bind-plans> Free Plan</label>
<label><input type="checkbox" value="Pro Plan" data-bind-plans> Pro Plan</label>
<label><input type="checkbox" value="Max Plan" data-bind-plans> Max Plan</label>
<input type="search" placeholder="Search name or email" data-bind-q
  data-on-input="@get('/sse/customers', {filterSignals: {include: /^(q|plans)/}})">
</div>
<div id="customer-content" data-on-load="@get('/sse/customers')">
<div class="loading">Loading customers…</div>
</div>
</div>`)
}

func Transactions() templ.Component {
	return page("Transactions", `
<h1>Transactions</h1>
<div data-signals="{q: '', plans: ['Pro Plan','Max Plan'], statuses: ['Success','Pending']}">
<div class="filters" data-on-change="@get('/sse/transactions', {filterSignals: {include: /^(q|plans|statuses)/}})">
<label><input type="checkbox" value="Pro Plan" data-bind-plans> Pro Plan</label>
<label><input type="checkbox" value="Max Plan" data-bind-plans> Max Plan</label>
<label><input type="checkbox" value="Success" data-bind-statuses> Success</label>
<label><input type="checkbox" value="Pending" data-bind-statuses> Pending</label>
<input type="search" placeholder="Search customer name" data-bind-q
  data-on-input="@get('/sse/transactions', {filterSignals: {include: /^(q|plans|statuses)/}})">
</div>
<div id="transaction-content" data-on-load="@get('/sse/transactions')">
<div class="loading">Loading transactions…</div>
</div>
</div>`)
}
