package edgar

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestLocateByManifestDeclaredTable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/data/1067983/000095012325005701-index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"documents": [
				{"name": "primary_doc.xml", "type": "13F-HR", "documentDescription": "primary document"},
				{"name": "xslForm13F_X02/form13fInfoTable.xml", "type": "INFORMATION TABLE", "documentDescription": ""},
				{"name": "form13fInfoTable.xml", "type": "INFORMATION TABLE", "documentDescription": ""}
			]
		}`))
	})

	c, srv := newTestEdgar(t, mux)
	url, err := c.LocateInfotable(context.Background(), "0001067983", "0000950123-25-005701", "primary_doc.xml")
	if err != nil {
		t.Fatalf("LocateInfotable: %v", err)
	}
	want := srv.URL + "/Archives/edgar/data/1067983/000095012325005701/form13fInfoTable.xml"
	if url != want {
		t.Errorf("url = %q, want %q (xsl variant must be skipped)", url, want)
	}
}

func TestLocateByManifestFallsBackToRawXML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/data/1067983/000095012325005701-index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"documents": [
				{"name": "primary_doc.xml", "type": "13F-HR"},
				{"name": "holdings.xml", "type": "", "documentDescription": ""}
			]
		}`))
	})

	c, srv := newTestEdgar(t, mux)
	url, err := c.LocateInfotable(context.Background(), "0001067983", "0000950123-25-005701", "primary_doc.xml")
	if err != nil {
		t.Fatalf("LocateInfotable: %v", err)
	}
	if !strings.HasSuffix(url, "/holdings.xml") || !strings.HasPrefix(url, srv.URL) {
		t.Errorf("url = %q, want .../holdings.xml (cover doc must be skipped)", url)
	}
}

func TestLocateFallsThroughToIndexPage(t *testing.T) {
	mux := http.NewServeMux()
	// No manifest: the -index.json path 404s, which is a soft miss.
	mux.HandleFunc("/Archives/edgar/data/1067983/0000950123-25-005701-index.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table>
			<tr><td><a href="primary_doc.xml">primary_doc.xml</a></td></tr>
			<tr><td><a href="/Archives/edgar/data/1067983/000095012325005701/xslForm13F_X02/infotable.xml">rendered</a></td></tr>
			<tr><td><a href="infotable.xml">infotable.xml</a></td></tr>
		</table></body></html>`))
	})

	c, srv := newTestEdgar(t, mux)
	url, err := c.LocateInfotable(context.Background(), "0001067983", "0000950123-25-005701", "primary_doc.xml")
	if err != nil {
		t.Fatalf("LocateInfotable: %v", err)
	}
	want := srv.URL + "/Archives/edgar/data/1067983/000095012325005701/infotable.xml"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestLocateFallsThroughToGuessing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/data/1067983/000095012325005701/infotable.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<informationTable></informationTable>`))
	})

	c, srv := newTestEdgar(t, mux)
	url, err := c.LocateInfotable(context.Background(), "0001067983", "0000950123-25-005701", "primary_doc.xml")
	if err != nil {
		t.Fatalf("LocateInfotable: %v", err)
	}
	want := srv.URL + "/Archives/edgar/data/1067983/000095012325005701/infotable.xml"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestLocateExhaustedReturnsErrNotFound(t *testing.T) {
	c, _ := newTestEdgar(t, http.NewServeMux())
	_, err := c.LocateInfotable(context.Background(), "0001067983", "0000950123-25-005701", "primary_doc.xml")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
