package insights

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/calendar"
	"ledgerlens/internal/testutil"
)

type stubProvider struct {
	snap *models.Snapshot
	err  error
}

func (s *stubProvider) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return s.snap, s.err
}

// monthlyOutflows builds a monthly payment history ending near today so
// detection sees a live pattern regardless of when the test runs.
func monthlyOutflows(payeeID string, amount int64, n int) []models.Transaction {
	today := calendar.Today().Civil()
	txns := make([]models.Transaction, n)
	for i := 0; i < n; i++ {
		txns[i] = models.Transaction{
			ID:        fmt.Sprintf("%s-%d", payeeID, i),
			Date:      today.AddDays(-30 * (n - i)),
			Amount:    amount,
			PayeeID:   payeeID,
			PayeeName: payeeID,
			CategoryID: payeeID, CategoryName: payeeID,
		}
	}
	return txns
}

func setupServer(t *testing.T, provider SnapshotProvider) *testutil.TestServer {
	t.Helper()
	Initialize(provider)
	r := chi.NewRouter()
	RegisterRoutes(r)
	return testutil.NewTestServer(t, r)
}

// TestRecurringEndpoint verifies detection output is served as JSON
func TestRecurringEndpoint(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("netflix", -15990, 6)),
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GET("/insights/recurring")

	var report models.RecurrenceReport
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		JSON(&report)

	if len(report.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(report.Items))
	}
	if report.Items[0].PayeeID != "netflix" {
		t.Errorf("payee = %s, want netflix", report.Items[0].PayeeID)
	}
	if report.AnalyzedPayees != 1 {
		t.Errorf("analyzed = %d, want 1", report.AnalyzedPayees)
	}
}

// TestRecurringMinOccurrences verifies the tuning parameter is honored
func TestRecurringMinOccurrences(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("netflix", -15990, 4)),
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GETWithQuery("/insights/recurring", map[string]string{"min_occurrences": "5"})

	var report models.RecurrenceReport
	testutil.AssertResponse(t, resp).StatusOK().JSON(&report)

	if len(report.Items) != 0 || report.SkippedPayees != 1 {
		t.Errorf("report = %+v, want the payee skipped", report)
	}
}

// TestRecurringBadParams verifies malformed parameters fail with 400
func TestRecurringBadParams(t *testing.T) {
	snap := &models.Snapshot{Transactions: models.NewTransactionSet(nil)}
	ts := setupServer(t, &stubProvider{snap: snap})

	t.Run("non-numeric min_occurrences", func(t *testing.T) {
		resp := ts.GETWithQuery("/insights/recurring", map[string]string{"min_occurrences": "lots"})
		testutil.AssertResponse(t, resp).StatusBadRequest().Contains("min_occurrences")
	})

	t.Run("unrecognized since expression", func(t *testing.T) {
		resp := ts.GETWithQuery("/insights/recurring", map[string]string{"since": "whenever"})
		testutil.AssertResponse(t, resp).StatusBadRequest().Contains("unrecognized date expression")
	})

	t.Run("since typo gets a suggestion", func(t *testing.T) {
		resp := ts.GETWithQuery("/insights/recurring", map[string]string{"since": "todya"})
		testutil.AssertResponse(t, resp).StatusBadRequest().Contains("did you mean")
	})
}

// TestRecurringSinceFilter verifies the since window shrinks the history
func TestRecurringSinceFilter(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("netflix", -15990, 6)),
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	// Only the newest occurrence or two fall inside the window: below the
	// minimum, so the payee is skipped.
	resp := ts.GETWithQuery("/insights/recurring", map[string]string{"since": "past 45 days"})

	var report models.RecurrenceReport
	testutil.AssertResponse(t, resp).StatusOK().JSON(&report)
	if len(report.Items) != 0 {
		t.Errorf("got %d items, want 0 after windowing", len(report.Items))
	}
	if report.SkippedPayees != 1 {
		t.Errorf("skipped = %d, want 1", report.SkippedPayees)
	}
}

// TestIncomeEndpoint verifies inflow detection is exposed separately
func TestIncomeEndpoint(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("employer", 250000, 6)),
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GET("/insights/income")

	var report models.RecurrenceReport
	testutil.AssertResponse(t, resp).StatusOK().ContentTypeJSON().JSON(&report)
	if len(report.Items) != 1 || report.Items[0].PayeeID != "employer" {
		t.Errorf("report = %+v, want employer income pattern", report)
	}
}

// TestTrendsEndpoint verifies trend analysis is served with the month window
func TestTrendsEndpoint(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("groceries", -50000, 6)),
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GETWithQuery("/insights/trends", map[string]string{"months": "4"})

	var report models.TrendReport
	testutil.AssertResponse(t, resp).StatusOK().ContentTypeJSON().JSON(&report)
	if report.AnalyzedCategories != 1 {
		t.Errorf("analyzed = %d, want 1", report.AnalyzedCategories)
	}
	if len(report.Items) != 1 || len(report.Items[0].MonthlySeries) != 4 {
		t.Errorf("report = %+v, want one item with a 4-month series", report)
	}
}

// TestTrendsBadMonths verifies a malformed window fails with 400
func TestTrendsBadMonths(t *testing.T) {
	snap := &models.Snapshot{Transactions: models.NewTransactionSet(nil)}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GETWithQuery("/insights/trends", map[string]string{"months": "many"})
	testutil.AssertResponse(t, resp).StatusBadRequest().Contains("months")
}

// TestSnapshotFailure verifies a failed data pull surfaces as 500
func TestSnapshotFailure(t *testing.T) {
	ts := setupServer(t, &stubProvider{err: fmt.Errorf("ledger unreachable")})

	resp := ts.GET("/insights/recurring")
	testutil.AssertResponse(t, resp).Status(http.StatusInternalServerError)
}

// TestFromCacheFlag verifies fallback snapshots are flagged in the response
func TestFromCacheFlag(t *testing.T) {
	snap := &models.Snapshot{
		Transactions: models.NewTransactionSet(monthlyOutflows("netflix", -15990, 6)),
		FromCache:    true,
	}
	ts := setupServer(t, &stubProvider{snap: snap})

	resp := ts.GET("/insights/recurring")
	testutil.AssertResponse(t, resp).StatusOK().Contains(`"from_cache":true`)
}
