// Package edgar talks to the SEC EDGAR filing system: the submissions
// directory for a filer's filing list and the archive file server for the
// documents inside a filing.
//
// No API key is required, but every request must carry a User-Agent and
// stay under the published rate limit; both are enforced by the shared
// infra client.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/internal/infra"
	"github.com/fundwatch/fundwatch/pkg/models"
)

const (
	defaultDataBase = "https://data.sec.gov"
	defaultWWWBase  = "https://www.sec.gov"

	form13F          = "13F-HR"
	form13FAmendment = "13F-HR/A"

	// coverDoc is the generic cover/header XML that agent-filed wrappers
	// use as their primary document. It is never the holdings table.
	coverDoc = "primary_doc.xml"

	// maxContinuationPages bounds how many overflow files are fetched when
	// the recent window is too shallow.
	maxContinuationPages = 2
)

// Is13F reports whether a form type is a quarterly holdings report,
// including amendments.
func Is13F(form string) bool {
	return form == form13F || form == form13FAmendment
}

// Client fetches filing directories and locates holdings documents.
type Client struct {
	http     *infra.Client
	log      *zap.Logger
	dataBase string // data.sec.gov mirror: submissions + metadata
	wwwBase  string // www.sec.gov mirror: archive documents
}

// NewClient builds an EDGAR client on top of the rate-gated HTTP client.
func NewClient(http *infra.Client, log *zap.Logger) *Client {
	return &Client{
		http:     http,
		log:      log,
		dataBase: defaultDataBase,
		wwwBase:  defaultWWWBase,
	}
}

// SetBaseURLs overrides the EDGAR mirror hosts. Used by tests to point the
// client at a local server.
func (c *Client) SetBaseURLs(dataBase, wwwBase string) {
	c.dataBase = strings.TrimRight(dataBase, "/")
	c.wwwBase = strings.TrimRight(wwwBase, "/")
}

// Filings returns the filer's filing records. Ordering follows the
// submissions endpoint, which is roughly but not reliably newest-first;
// callers filter and sort as needed.
//
// When the recent window holds fewer than two distinct 13F report periods,
// up to two continuation files are fetched so change classification has an
// elder quarter to compare against. Continuation failures are logged and
// skipped; only the primary request is fatal.
func (c *Client) Filings(ctx context.Context, cik string) ([]models.FilingRecord, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBase, cik)
	body, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}

	var resp submissionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse submissions for CIK %s: %w", cik, err)
	}

	records := flattenColumns(resp.Filings.Recent)

	if distinct13FPeriods(records) >= 2 {
		return records, nil
	}
	for i, cf := range resp.Filings.Files {
		if i >= maxContinuationPages || distinct13FPeriods(records) >= 2 {
			break
		}
		page, err := c.continuation(ctx, cf.Name)
		if err != nil {
			c.log.Warn("continuation page failed, skipping",
				zap.String("cik", cik), zap.String("file", cf.Name), zap.Error(err))
			continue
		}
		records = append(records, page...)
	}
	return records, nil
}

func (c *Client) continuation(ctx context.Context, name string) ([]models.FilingRecord, error) {
	body, err := c.http.Get(ctx, c.dataBase+"/submissions/"+name)
	if err != nil {
		return nil, err
	}
	var cols continuationResponse
	if err := json.Unmarshal(body, &cols); err != nil {
		return nil, fmt.Errorf("parse continuation %s: %w", name, err)
	}
	return flattenColumns(filingColumns(cols)), nil
}

// flattenColumns turns EDGAR's parallel arrays into one record per filing.
// Ragged columns are tolerated: missing cells become empty strings.
func flattenColumns(cols filingColumns) []models.FilingRecord {
	records := make([]models.FilingRecord, 0, len(cols.Form))
	for i := range cols.Form {
		records = append(records, models.FilingRecord{
			Form:       cols.Form[i],
			Accession:  cell(cols.AccessionNumber, i),
			FilingDate: cell(cols.FilingDate, i),
			Period:     cell(cols.ReportDate, i),
			PrimaryDoc: cell(cols.PrimaryDocument, i),
		})
	}
	return records
}

func cell(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

func distinct13FPeriods(records []models.FilingRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if Is13F(r.Form) && r.Period != "" {
			seen[r.Period] = struct{}{}
		}
	}
	return len(seen)
}

// cikStripped removes the zero padding: archive paths use the bare number.
func cikStripped(cik string) string {
	s := strings.TrimLeft(cik, "0")
	if s == "" {
		return "0"
	}
	return s
}

// accessionParts returns the accession identifier with and without dashes.
// Archive directories use the undashed form; index filenames use the
// dashed XXXXXXXXXX-YY-ZZZZZZ form.
func accessionParts(accession string) (nodash, dashed string) {
	nodash = strings.ReplaceAll(accession, "-", "")
	if len(nodash) == 18 {
		dashed = nodash[:10] + "-" + nodash[10:12] + "-" + nodash[12:]
	} else {
		dashed = accession
	}
	return nodash, dashed
}
