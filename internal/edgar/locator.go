package edgar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrNotFound is returned when every lookup strategy is exhausted without
// locating a holdings table. Callers skip the affected quarter; it is not
// fatal for the fund.
var ErrNotFound = errors.New("infotable not found")

// LocateInfotable resolves the URL of the holdings-table XML inside one
// 13F filing. Archive layouts are not uniform across filers and years, so
// three strategies are tried in order, each only when the previous one
// produced nothing:
//
//  1. the machine-readable -index.json manifest
//  2. the rendered -index.htm page, scraped for XML links
//  3. direct probes of conventional infotable filenames
//
// All fetches use soft-miss semantics so a 404 falls through to the next
// strategy instead of failing the lookup.
func (c *Client) LocateInfotable(ctx context.Context, cik, accession, primaryDoc string) (string, error) {
	nodash, dashed := accessionParts(accession)
	cikInt := cikStripped(cik)
	docBase := fmt.Sprintf("%s/Archives/edgar/data/%s/%s", c.wwwBase, cikInt, nodash)

	if u := c.locateByManifest(ctx, cikInt, nodash, docBase); u != "" {
		return u, nil
	}
	if u := c.locateByIndexPage(ctx, cikInt, nodash, dashed); u != "" {
		return u, nil
	}
	if u := c.locateByGuessing(ctx, docBase, primaryDoc); u != "" {
		return u, nil
	}

	c.log.Warn("could not locate infotable",
		zap.String("cik", cikInt), zap.String("accession", nodash))
	return "", ErrNotFound
}

// locateByManifest reads the filing's -index.json manifest and picks the
// entry declared as an information table, skipping XSLT-rendered HTML
// variants. Falls back to the first raw XML that is not the cover page.
func (c *Client) locateByManifest(ctx context.Context, cikInt, nodash, docBase string) string {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.json", c.dataBase, cikInt, nodash)
	body, err := c.http.GetMaybe(ctx, url)
	if err != nil || body == nil {
		return ""
	}

	var idx indexResponse
	if err := json.Unmarshal(body, &idx); err != nil {
		c.log.Debug("manifest parse failed", zap.String("url", url), zap.Error(err))
		return ""
	}

	for _, doc := range idx.Documents {
		fname := strings.ToLower(doc.Name)
		if strings.Contains(fname, "xslform13f") {
			continue // XSLT-rendered HTML, not raw XML
		}
		if strings.EqualFold(doc.Type, "INFORMATION TABLE") ||
			strings.Contains(strings.ToLower(doc.Description), "information table") ||
			strings.Contains(fname, "infotable") ||
			strings.Contains(fname, "info_table") {
			return docBase + "/" + doc.Name
		}
	}
	// First raw XML that is not the cover/header document.
	for _, doc := range idx.Documents {
		fname := strings.ToLower(doc.Name)
		if strings.HasSuffix(fname, ".xml") &&
			!strings.Contains(fname, "xslform13f") &&
			baseName(fname) != coverDoc {
			return docBase + "/" + doc.Name
		}
	}
	return ""
}

// locateByIndexPage scrapes the human-readable index page for XML links.
// The accession appears both dashed and undashed across the two mirror
// hosts, so all four candidate URLs are tried.
func (c *Client) locateByIndexPage(ctx context.Context, cikInt, nodash, dashed string) string {
	path := func(base, acc string) string {
		return fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.htm", base, cikInt, acc)
	}
	candidates := []string{
		path(c.wwwBase, dashed),
		path(c.dataBase, dashed),
		path(c.wwwBase, nodash),
		path(c.dataBase, nodash),
	}

	for _, u := range candidates {
		body, err := c.http.GetMaybe(ctx, u)
		if err != nil || body == nil {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			c.log.Debug("index page parse failed", zap.String("url", u), zap.Error(err))
			continue
		}

		var links []string
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if !strings.HasSuffix(strings.ToLower(href), ".xml") {
				return
			}
			if !strings.HasPrefix(href, "/") {
				href = fmt.Sprintf("/Archives/edgar/data/%s/%s/%s", cikInt, nodash, href)
			}
			links = append(links, href)
		})

		// xslForm13F_X02/ paths are rendered HTML tables and the cover doc
		// is the submission header; neither is the infotable.
		var raw []string
		for _, l := range links {
			if strings.Contains(l, "xslForm13F_X02/") || baseName(strings.ToLower(l)) == coverDoc {
				continue
			}
			raw = append(raw, l)
		}
		c.log.Debug("index page scraped",
			zap.String("url", u), zap.Int("links", len(links)), zap.Int("raw", len(raw)))

		for _, l := range raw {
			fname := baseName(strings.ToLower(l))
			if strings.Contains(fname, "infotable") || strings.Contains(fname, "info_table") {
				return c.wwwBase + l
			}
		}
		if len(raw) > 0 {
			return c.wwwBase + raw[0]
		}
		return "" // page parsed fine but held no usable XML; stop trying variants
	}
	return ""
}

// locateByGuessing probes conventional infotable filenames, plus variants
// derived from the primary document's base name, directly against the
// filing directory. First non-empty body wins.
func (c *Client) locateByGuessing(ctx context.Context, docBase, primaryDoc string) string {
	var candidates []string
	if stem := docStem(primaryDoc); stem != "" {
		candidates = append(candidates,
			stem+"_infotable.xml",
			stem+"_info_table.xml",
			stem+"infotable.xml",
		)
	}
	candidates = append(candidates,
		"infotable.xml",
		"information_table.xml",
		"13finfotable.xml",
		"form13fInfoTable.xml",
		"informationtable.xml",
		"InfoTable.xml",
		"13F_InfoTable.xml",
	)

	for _, fname := range candidates {
		if fname == "" || strings.HasPrefix(fname, "_") {
			continue
		}
		url := docBase + "/" + fname
		body, err := c.http.GetMaybe(ctx, url)
		if err != nil || body == nil {
			continue
		}
		if len(bytes.TrimSpace(body)) > 0 {
			c.log.Debug("found infotable via filename guess", zap.String("url", url))
			return url
		}
	}
	return ""
}

// FetchDocument retrieves a located document body.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	return c.http.Get(ctx, url)
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func docStem(primaryDoc string) string {
	if i := strings.LastIndex(primaryDoc, "."); i > 0 {
		return primaryDoc[:i]
	}
	return primaryDoc
}
