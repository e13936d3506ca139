package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/internal/infra"
)

func newTestEdgar(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hc := infra.NewClient(clock.NewFake(), "test/1.0", time.Millisecond, 5*time.Second, zap.NewNop())
	c := NewClient(hc, zap.NewNop())
	c.SetBaseURLs(srv.URL, srv.URL)
	return c, srv
}

func TestFilingsFlattensColumns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"cik": "1067983",
			"name": "BERKSHIRE HATHAWAY INC",
			"filings": {
				"recent": {
					"accessionNumber": ["0000950123-25-005701", "0000950123-25-001000"],
					"filingDate": ["2025-05-15", "2025-02-14"],
					"reportDate": ["2025-03-31", "2024-12-31"],
					"form": ["13F-HR", "13F-HR"],
					"primaryDocument": ["primary_doc.xml", "primary_doc.xml"]
				},
				"files": []
			}
		}`))
	})

	c, _ := newTestEdgar(t, mux)
	records, err := c.Filings(context.Background(), "0001067983")
	if err != nil {
		t.Fatalf("Filings: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	r := records[0]
	if r.Form != "13F-HR" || r.Accession != "0000950123-25-005701" ||
		r.FilingDate != "2025-05-15" || r.Period != "2025-03-31" ||
		r.PrimaryDoc != "primary_doc.xml" {
		t.Errorf("unexpected first record: %+v", r)
	}
}

func TestFilingsFetchesContinuationWhenShallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"filings": {
				"recent": {
					"accessionNumber": ["0000950123-25-005701"],
					"filingDate": ["2025-05-15"],
					"reportDate": ["2025-03-31"],
					"form": ["13F-HR"],
					"primaryDocument": ["primary_doc.xml"]
				},
				"files": [{"name": "CIK0001067983-submissions-001.json"}]
			}
		}`))
	})
	mux.HandleFunc("/submissions/CIK0001067983-submissions-001.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accessionNumber": ["0000950123-25-001000"],
			"filingDate": ["2025-02-14"],
			"reportDate": ["2024-12-31"],
			"form": ["13F-HR"],
			"primaryDocument": ["primary_doc.xml"]
		}`))
	})

	c, _ := newTestEdgar(t, mux)
	records, err := c.Filings(context.Background(), "0001067983")
	if err != nil {
		t.Fatalf("Filings: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (recent + continuation)", len(records))
	}
	if records[1].Period != "2024-12-31" {
		t.Errorf("continuation record period = %q, want 2024-12-31", records[1].Period)
	}
}

func TestFilingsContinuationFailureNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000012345.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"filings": {
				"recent": {
					"accessionNumber": ["0000000000-25-000001"],
					"filingDate": ["2025-05-15"],
					"reportDate": ["2025-03-31"],
					"form": ["13F-HR"],
					"primaryDocument": ["primary_doc.xml"]
				},
				"files": [{"name": "missing.json"}]
			}
		}`))
	})
	mux.HandleFunc("/submissions/missing.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, _ := newTestEdgar(t, mux)
	records, err := c.Filings(context.Background(), "0000012345")
	if err != nil {
		t.Fatalf("continuation failure should not be fatal: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestIs13F(t *testing.T) {
	cases := []struct {
		form string
		want bool
	}{
		{"13F-HR", true},
		{"13F-HR/A", true},
		{"13F-NT", false},
		{"10-K", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Is13F(tc.form); got != tc.want {
			t.Errorf("Is13F(%q) = %v, want %v", tc.form, got, tc.want)
		}
	}
}

func TestAccessionParts(t *testing.T) {
	nodash, dashed := accessionParts("0000950123-25-005701")
	if nodash != "000095012325005701" {
		t.Errorf("nodash = %q", nodash)
	}
	if dashed != "0000950123-25-005701" {
		t.Errorf("dashed = %q", dashed)
	}

	// Already undashed in, dashed form reconstructed.
	nodash, dashed = accessionParts("000095012325005701")
	if nodash != "000095012325005701" || dashed != "0000950123-25-005701" {
		t.Errorf("undashed input: nodash=%q dashed=%q", nodash, dashed)
	}
}

func TestCIKStripped(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0001067983", "1067983"},
		{"1067983", "1067983"},
		{"0000000000", "0"},
	}
	for _, tc := range cases {
		if got := cikStripped(tc.in); got != tc.want {
			t.Errorf("cikStripped(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
