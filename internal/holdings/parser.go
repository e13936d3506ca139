// Package holdings turns raw 13F filings into classified, ranked holding
// lists: it parses infotable XML, selects the quarter chain to fetch,
// classifies quarter-over-quarter changes, and ranks the result.
package holdings

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fundwatch/fundwatch/internal/edgar"
	"github.com/fundwatch/fundwatch/pkg/models"
)

// infoTableEntry is one <infoTable> element. Field tags carry only local
// names, so namespaced and namespace-free documents both decode.
type infoTableEntry struct {
	NameOfIssuer string `xml:"nameOfIssuer"`
	CUSIP        string `xml:"cusip"`
	Value        string `xml:"value"`
	ShrsOrPrnAmt struct {
		SshPrnamt string `xml:"sshPrnamt"`
	} `xml:"shrsOrPrnAmt"`
	PutCall string `xml:"putCall"`
}

// ParseInfotable parses a holdings-table document into holdings.
//
// Tolerance rules: options (put/call) positions are skipped, as is any
// entry whose numeric fields fail to parse; a malformed row never fails
// the document. After parsing, rows sharing a non-empty CUSIP are merged
// by summing shares and value, since filers occasionally split one
// position across sub-manager rows. The merge must precede ranking and
// change classification.
func ParseInfotable(body []byte) ([]models.Holding, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false

	var raw []models.Holding
	for {
		tok, err := dec.Token()
		if err != nil {
			break // io.EOF or malformed tail; keep what parsed
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "infoTable" {
			continue
		}

		var entry infoTableEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			continue
		}
		if strings.TrimSpace(entry.PutCall) != "" {
			continue // only equity-like long positions are modeled
		}

		valueK, err := strconv.ParseInt(strings.TrimSpace(entry.Value), 10, 64)
		if err != nil || valueK < 0 {
			continue
		}
		shares, err := strconv.ParseInt(strings.TrimSpace(entry.ShrsOrPrnAmt.SshPrnamt), 10, 64)
		if err != nil || shares < 0 {
			continue
		}

		cusip := strings.TrimSpace(entry.CUSIP)
		raw = append(raw, models.Holding{
			CUSIP:          cusip,
			Name:           strings.TrimSpace(entry.NameOfIssuer),
			Ticker:         edgar.TickerForCUSIP(cusip),
			Shares:         shares,
			ValueThousands: valueK,
			ValueMillions:  round1(float64(valueK) / 1000),
		})
	}

	if raw == nil {
		return nil, fmt.Errorf("no infoTable entries found")
	}
	return mergeByCUSIP(raw), nil
}

// mergeByCUSIP combines rows sharing a non-empty CUSIP, keeping first-seen
// order. Rows without a CUSIP pass through untouched.
func mergeByCUSIP(in []models.Holding) []models.Holding {
	out := make([]models.Holding, 0, len(in))
	index := make(map[string]int)
	for _, h := range in {
		if h.CUSIP == "" {
			out = append(out, h)
			continue
		}
		if i, ok := index[h.CUSIP]; ok {
			out[i].Shares += h.Shares
			out[i].ValueThousands += h.ValueThousands
			out[i].ValueMillions = round1(float64(out[i].ValueThousands) / 1000)
			continue
		}
		index[h.CUSIP] = len(out)
		out = append(out, h)
	}
	return out
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
