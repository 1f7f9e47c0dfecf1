package services

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"admin-pulse/internal/models"
)

// Sortable customer columns.
const (
	ColumnID               = "id"
	ColumnName             = "name"
	ColumnEmail            = "email"
	ColumnPlan             = "plan"
	ColumnStatus           = "status"
	ColumnRegistrationDate = "registrationDate"
)

// CustomerFilter selects plans (OR within the dimension) and optionally a
// search term matched against name or email.
type CustomerFilter struct {
	Plans  []string
	Search string
}

// AllPlans is the view's initial checkbox state.
func AllPlans() []string {
	return []string{models.PlanFree, models.PlanPro, models.PlanMax}
}

type sortState struct {
	column     string
	descending bool
}

// CustomerDirectory owns the loaded user set and the current filter/sort
// selection. The loaded set is immutable; filtered is always a derived
// subset of it, re-built on every filter change.
type CustomerDirectory struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	all      []models.User
	filtered []models.User
	filter   CustomerFilter
	sort     sortState
}

func NewCustomerDirectory(logger *slog.Logger) *CustomerDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerDirectory{
		logger: logger,
		filter: CustomerFilter{Plans: AllPlans()},
	}
}

func (d *CustomerDirectory) SetData(users []models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.all = users
	d.refilterLocked()
	d.logger.Info("customer directory loaded", "total", len(users))
}

// ApplyFilter replaces the active filter, re-derives the subset, and
// re-applies the last active sort so sort state survives filter changes.
func (d *CustomerDirectory) ApplyFilter(f CustomerFilter) []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter = f
	d.refilterLocked()
	return d.filtered
}

// SortBy toggles direction when column is already active, otherwise selects
// the column ascending, and re-sorts the current subset.
func (d *CustomerDirectory) SortBy(column string) []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sort.column == column {
		d.sort.descending = !d.sort.descending
	} else {
		d.sort = sortState{column: column}
	}
	d.sortLocked()
	return d.filtered
}

// SetSort selects a column and direction explicitly, bypassing the toggle.
func (d *CustomerDirectory) SetSort(column string, descending bool) []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sort = sortState{column: column, descending: descending}
	d.sortLocked()
	return d.filtered
}

func (d *CustomerDirectory) refilterLocked() {
	d.filtered = filterCustomers(d.all, d.filter)
	d.sortLocked()
}

func (d *CustomerDirectory) sortLocked() {
	cmpFn := customerComparator(d.sort.column)
	if cmpFn == nil {
		return
	}
	if d.sort.descending {
		asc := cmpFn
		cmpFn = func(a, b models.User) int { return -asc(a, b) }
	}
	// Stable so tied rows never visibly reshuffle on repeated sorts.
	slices.SortStableFunc(d.filtered, cmpFn)
}

func filterCustomers(users []models.User, f CustomerFilter) []models.User {
	term := strings.ToLower(f.Search)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if !matchesAny(f.Plans, u.Plan) {
			continue
		}
		if term != "" && !containsFold(u.Name, term) && !containsFold(u.Email, term) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func customerComparator(column string) func(a, b models.User) int {
	switch column {
	case ColumnID:
		return func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) }
	case ColumnRegistrationDate:
		return func(a, b models.User) int { return a.RegistrationDate.Compare(b.RegistrationDate.Time) }
	case ColumnName:
		return compareUserText(func(u models.User) string { return u.Name })
	case ColumnEmail:
		return compareUserText(func(u models.User) string { return u.Email })
	case ColumnPlan:
		return compareUserText(func(u models.User) string { return u.Plan })
	case ColumnStatus:
		return compareUserText(func(u models.User) string { return u.Status })
	default:
		return nil
	}
}

func compareUserText(field func(models.User) string) func(a, b models.User) int {
	return func(a, b models.User) int {
		return strings.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

func (d *CustomerDirectory) Filtered() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filtered
}

func (d *CustomerDirectory) Lookup(id int) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.all {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Sort reports the active column ("" when unsorted) and direction for the
// table header indicators.
func (d *CustomerDirectory) Sort() (column string, descending bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sort.column, d.sort.descending
}

func (d *CustomerDirectory) Summary() models.CustomerSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	summary := models.CustomerSummary{
		Total:    len(d.all),
		Filtered: len(d.filtered),
	}
	for _, u := range d.all {
		switch u.Plan {
		case models.PlanFree:
			summary.FreeCount++
		case models.PlanPro:
			summary.ProCount++
		case models.PlanMax:
			summary.MaxCount++
		}
	}
	return summary
}
