package services

import (
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"admin-pulse/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func date(y int, m time.Month, d int) models.Date {
	return models.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func sampleUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "An Nguyen", Email: "an@example.com", Plan: models.PlanFree, Status: "Active", RegistrationDate: date(2024, 3, 10)},
		{ID: 2, Name: "Binh Tran", Email: "binh@example.com", Plan: models.PlanPro, Status: "Active", RegistrationDate: date(2024, 1, 5)},
		{ID: 3, Name: "Cuong Le", Email: "cuong@example.com", Plan: models.PlanMax, Status: "Inactive", RegistrationDate: date(2024, 2, 20)},
		{ID: 4, Name: "Duc Pham", Email: "duc@example.com", Plan: models.PlanPro, Status: "Active", RegistrationDate: date(2024, 1, 5)},
		{ID: 5, Name: "an thi en", Email: "en@example.com", Plan: models.PlanFree, Status: "Active", RegistrationDate: date(2024, 4, 1)},
	}
}

func newTestDirectory(t *testing.T) *CustomerDirectory {
	t.Helper()
	d := NewCustomerDirectory(quietLogger())
	d.SetData(sampleUsers())
	return d
}

func idsOf(users []models.User) []int {
	ids := make([]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func TestCustomerDirectory_FilterByPlan(t *testing.T) {
	tests := []struct {
		name    string
		filter  CustomerFilter
		wantIDs []int
	}{
		{
			name:    "all plans selected keeps everyone in load order",
			filter:  CustomerFilter{Plans: AllPlans()},
			wantIDs: []int{1, 2, 3, 4, 5},
		},
		{
			name:    "single plan",
			filter:  CustomerFilter{Plans: []string{models.PlanPro}},
			wantIDs: []int{2, 4},
		},
		{
			name:    "two plans combine with OR",
			filter:  CustomerFilter{Plans: []string{models.PlanFree, models.PlanMax}},
			wantIDs: []int{1, 3, 5},
		},
		{
			name:    "zero selected plans matches nothing",
			filter:  CustomerFilter{Plans: nil},
			wantIDs: []int{},
		},
		{
			name:    "plan and search combine with AND",
			filter:  CustomerFilter{Plans: []string{models.PlanFree}, Search: "an"},
			wantIDs: []int{1, 5},
		},
		{
			name:    "search matches email too",
			filter:  CustomerFilter{Plans: AllPlans(), Search: "cuong@"},
			wantIDs: []int{3},
		},
		{
			name:    "search is case insensitive",
			filter:  CustomerFilter{Plans: AllPlans(), Search: "BINH"},
			wantIDs: []int{2},
		},
		{
			name:    "no match yields empty result",
			filter:  CustomerFilter{Plans: AllPlans(), Search: "zzz"},
			wantIDs: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDirectory(t)
			got := idsOf(d.ApplyFilter(tt.filter))
			if !slices.Equal(got, tt.wantIDs) {
				t.Errorf("ApplyFilter() = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestCustomerDirectory_FilterIdempotent(t *testing.T) {
	d := newTestDirectory(t)
	f := CustomerFilter{Plans: []string{models.PlanPro, models.PlanFree}, Search: "a"}

	first := idsOf(d.ApplyFilter(f))
	second := idsOf(d.ApplyFilter(f))

	if !slices.Equal(first, second) {
		t.Errorf("applying the same filter twice changed the result: %v != %v", first, second)
	}
}

func TestCustomerDirectory_FilterDoesNotMutateSource(t *testing.T) {
	users := sampleUsers()
	d := NewCustomerDirectory(quietLogger())
	d.SetData(users)

	d.ApplyFilter(CustomerFilter{Plans: []string{models.PlanMax}})
	d.SortBy(ColumnName)

	if !slices.Equal(idsOf(users), []int{1, 2, 3, 4, 5}) {
		t.Errorf("source set was reordered: %v", idsOf(users))
	}
}

func TestCustomerDirectory_SortColumns(t *testing.T) {
	tests := []struct {
		column  string
		wantIDs []int
	}{
		{ColumnID, []int{1, 2, 3, 4, 5}},
		{ColumnName, []int{1, 5, 2, 3, 4}},             // "an thi en" sorts by lowercase, after "An Nguyen"
		{ColumnRegistrationDate, []int{2, 4, 3, 1, 5}}, // 2 and 4 tie on date, input order kept
		{ColumnPlan, []int{1, 5, 3, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			d := newTestDirectory(t)
			got := idsOf(d.SortBy(tt.column))
			if !slices.Equal(got, tt.wantIDs) {
				t.Errorf("SortBy(%q) = %v, want %v", tt.column, got, tt.wantIDs)
			}
		})
	}
}

func TestCustomerDirectory_SortToggle(t *testing.T) {
	d := newTestDirectory(t)

	asc := slices.Clone(d.SortBy(ColumnName))
	desc := slices.Clone(d.SortBy(ColumnName))
	back := d.SortBy(ColumnName)

	if slices.Equal(idsOf(asc), idsOf(desc)) {
		t.Error("second click on the same column should flip direction")
	}
	if !slices.Equal(idsOf(asc), idsOf(back)) {
		t.Errorf("third click should restore ascending order: %v != %v", idsOf(asc), idsOf(back))
	}

	if column, descending := d.Sort(); column != ColumnName || descending {
		t.Errorf("Sort() = (%q, %v), want (%q, false)", column, descending, ColumnName)
	}
}

func TestCustomerDirectory_SortNewColumnResetsAscending(t *testing.T) {
	d := newTestDirectory(t)

	d.SortBy(ColumnName)
	d.SortBy(ColumnName) // name descending
	got := idsOf(d.SortBy(ColumnID))

	if !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("selecting a new column should sort ascending, got %v", got)
	}
}

func TestCustomerDirectory_SortStability(t *testing.T) {
	// Users 2 and 4 share a registration date; their relative order must
	// survive repeated sorts in both directions.
	d := newTestDirectory(t)

	asc := idsOf(d.SortBy(ColumnRegistrationDate))
	if !tiedInOrder(asc, 2, 4) {
		t.Errorf("ascending sort reordered tied rows: %v", asc)
	}

	desc := idsOf(d.SortBy(ColumnRegistrationDate))
	if !tiedInOrder(desc, 2, 4) {
		t.Errorf("descending sort reordered tied rows: %v", desc)
	}

	again := idsOf(d.SortBy(ColumnRegistrationDate))
	if !slices.Equal(asc, again) {
		t.Errorf("re-sorting ascending reshuffled rows: %v != %v", asc, again)
	}
}

func tiedInOrder(ids []int, first, second int) bool {
	return slices.Index(ids, first) < slices.Index(ids, second)
}

func TestCustomerDirectory_RefilterReappliesSort(t *testing.T) {
	d := newTestDirectory(t)

	d.SortBy(ColumnName)
	d.SortBy(ColumnName) // descending by name

	got := idsOf(d.ApplyFilter(CustomerFilter{Plans: []string{models.PlanPro, models.PlanMax}}))
	want := []int{4, 3, 2} // Duc, Cuong, Binh

	if !slices.Equal(got, want) {
		t.Errorf("re-filter should re-apply the active sort, got %v, want %v", got, want)
	}
}

func TestCustomerDirectory_Lookup(t *testing.T) {
	d := newTestDirectory(t)

	if u, ok := d.Lookup(3); !ok || u.Name != "Cuong Le" {
		t.Errorf("Lookup(3) = (%v, %v), want Cuong Le", u, ok)
	}

	if _, ok := d.Lookup(99); ok {
		t.Error("Lookup(99) should report not found")
	}
}

func TestCustomerDirectory_Summary(t *testing.T) {
	d := newTestDirectory(t)
	d.ApplyFilter(CustomerFilter{Plans: []string{models.PlanPro}})

	got := d.Summary()
	want := models.CustomerSummary{Total: 5, FreeCount: 2, ProCount: 2, MaxCount: 1, Filtered: 2}

	if got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func BenchmarkCustomerDirectory_ApplyFilter(b *testing.B) {
	users := make([]models.User, 2000)
	for i := range users {
		users[i] = models.User{
			ID:    i + 1,
			Name:  "User " + string(rune('a'+i%26)),
			Email: "user@example.com",
			Plan:  AllPlans()[i%3],
		}
	}
	d := NewCustomerDirectory(quietLogger())
	d.SetData(users)
	f := CustomerFilter{Plans: []string{models.PlanPro}, Search: "user"}

	b.ResetTimer()
	for b.Loop() {
		_ = d.ApplyFilter(f)
	}
}
