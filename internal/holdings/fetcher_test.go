package holdings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/internal/edgar"
	"github.com/fundwatch/fundwatch/internal/infra"
	"github.com/fundwatch/fundwatch/pkg/models"
)

func infotableXML(issuer, cusip string, shares, valueK int64) string {
	return fmt.Sprintf(`<informationTable>
  <infoTable>
    <nameOfIssuer>%s</nameOfIssuer>
    <cusip>%s</cusip>
    <value>%d</value>
    <shrsOrPrnAmt><sshPrnamt>%d</sshPrnamt></shrsOrPrnAmt>
  </infoTable>
</informationTable>`, issuer, cusip, valueK, shares)
}

func newTestFetcher(t *testing.T, mux *http.ServeMux) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hc := infra.NewClient(clock.NewFake(), "test/1.0", time.Millisecond, 5*time.Second, zap.NewNop())
	ec := edgar.NewClient(hc, zap.NewNop())
	ec.SetBaseURLs(srv.URL, srv.URL)
	return NewFetcher(ec, zap.NewNop())
}

func TestFetchFundTwoQuarters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"filings": {
				"recent": {
					"accessionNumber": ["0000000000-25-000001", "0000000000-25-000002"],
					"filingDate": ["2025-05-15", "2025-02-14"],
					"reportDate": ["2025-03-31", "2024-12-31"],
					"form": ["13F-HR", "13F-HR"],
					"primaryDocument": ["primary_doc.xml", "primary_doc.xml"]
				},
				"files": []
			}
		}`))
	})
	serveManifest := func(accNodash, docName string) {
		mux.HandleFunc("/Archives/edgar/data/1067983/"+accNodash+"-index.json",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"documents": [{"name": %q, "type": "INFORMATION TABLE"}]}`, docName)
			})
	}
	serveManifest("000000000025000001", "q1.xml")
	serveManifest("000000000025000002", "q4.xml")
	mux.HandleFunc("/Archives/edgar/data/1067983/000000000025000001/q1.xml",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(infotableXML("APPLE INC", "037833100", 1500, 250000)))
		})
	mux.HandleFunc("/Archives/edgar/data/1067983/000000000025000002/q4.xml",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(infotableXML("APPLE INC", "037833100", 1000, 200000)))
		})

	f := newTestFetcher(t, mux)
	result := f.FetchFund(context.Background(), models.Fund{Name: "Berkshire Hathaway", CIK: "0001067983"})

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.Quarters) != 2 {
		t.Fatalf("got %d quarters, want 2", len(result.Quarters))
	}
	if result.Period != "2025-03-31" || result.TotalHoldings != 1 {
		t.Errorf("top-level fields wrong: period=%q holdings=%d", result.Period, result.TotalHoldings)
	}

	latest := result.Quarters[0].Holdings[0]
	if latest.Change != models.ChangeIncreased {
		t.Errorf("latest change = %q, want increased", latest.Change)
	}
	if latest.ChangePct == nil || *latest.ChangePct != 50.0 {
		t.Errorf("latest pct = %v, want 50.0", latest.ChangePct)
	}

	oldest := result.Quarters[1].Holdings[0]
	if oldest.Change != models.ChangeUnknown || oldest.ChangePct != nil {
		t.Errorf("oldest quarter should be unknown, got %q pct=%v", oldest.Change, oldest.ChangePct)
	}
}

func TestFetchFundSkipsUnlocatableQuarter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000012345.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"filings": {
				"recent": {
					"accessionNumber": ["0000000000-25-000001", "0000000000-25-000002"],
					"filingDate": ["2025-05-15", "2025-02-14"],
					"reportDate": ["2025-03-31", "2024-12-31"],
					"form": ["13F-HR", "13F-HR"],
					"primaryDocument": ["doc.xml", "doc.xml"]
				},
				"files": []
			}
		}`))
	})
	// Only the older quarter's table exists; the newer one 404s everywhere.
	mux.HandleFunc("/Archives/edgar/data/12345/000000000025000002-index.json",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"documents": [{"name": "t.xml", "type": "INFORMATION TABLE"}]}`))
		})
	mux.HandleFunc("/Archives/edgar/data/12345/000000000025000002/t.xml",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(infotableXML("MICROSOFT CORP", "594918104", 500, 90000)))
		})

	f := newTestFetcher(t, mux)
	result := f.FetchFund(context.Background(), models.Fund{Name: "Test Fund", CIK: "0000012345"})

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.Quarters) != 1 {
		t.Fatalf("got %d quarters, want 1 (newer one skipped)", len(result.Quarters))
	}
	if result.Period != "2024-12-31" {
		t.Errorf("period = %q, want the surviving quarter", result.Period)
	}
	if result.Holdings[0].Change != models.ChangeUnknown {
		t.Errorf("sole quarter should classify unknown, got %q", result.Holdings[0].Change)
	}
}

func TestFetchFundNoFilings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000012345.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"filings": {"recent": {}, "files": []}}`))
	})

	f := newTestFetcher(t, mux)
	result := f.FetchFund(context.Background(), models.Fund{Name: "Empty", CIK: "0000012345"})
	if result.Error != "no 13F-HR filings found" {
		t.Errorf("error = %q, want no-filings message", result.Error)
	}
}

func TestFetchFundDirectoryFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000012345.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	f := newTestFetcher(t, mux)
	result := f.FetchFund(context.Background(), models.Fund{Name: "Broken", CIK: "0000012345"})
	if result.Error == "" {
		t.Error("expected error when the filing directory is unreachable")
	}
	if len(result.Quarters) != 0 {
		t.Errorf("got %d quarters, want 0", len(result.Quarters))
	}
}
