package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_ExposesCounters(t *testing.T) {
	m := New()
	m.CookSaved("Alice", 2.1)
	m.SaveFailed("validation")
	m.SetActive(3)
	m.Exported("csv")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`kitchenlog_cooks_saved_total{staff="Alice"} 1`,
		`kitchenlog_save_failures_total{reason="validation"} 1`,
		`kitchenlog_active_cooks 3`,
		`kitchenlog_exports_total{format="csv"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in metrics output", want)
		}
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.CookSaved("Bob", 1)
	m.SaveFailed("io")
	m.SetActive(1)
	m.Exported("pdf")
	if m.Handler() == nil {
		t.Fatalf("nil metrics must still return a handler")
	}
}
