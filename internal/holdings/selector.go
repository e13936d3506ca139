package holdings

import (
	"sort"
	"strings"
	"time"

	"github.com/fundwatch/fundwatch/internal/edgar"
	"github.com/fundwatch/fundwatch/pkg/models"
)

const (
	// minQuarterGapDays and maxQuarterGapDays bound the spacing between
	// consecutive accepted report periods: one quarter with slack for late
	// filings. A wider gap means a break in consecutive coverage.
	minQuarterGapDays = 60
	maxQuarterGapDays = 200

	// maxQuarters caps the history chain fetched per fund.
	maxQuarters = 4

	dateLayout = "2006-01-02"
)

// SelectQuarters picks the chain of 13F filings to fetch for one fund:
// one representative filing per report period, newest first, spaced one
// quarter apart, at most four deep.
//
// When a period has several candidate filings (original plus amendments,
// or agent-filed wrappers), the one whose primary document is not the bare
// cover stub is preferred.
func SelectQuarters(filings []models.FilingRecord) []models.FilingRecord {
	byPeriod := make(map[string][]models.FilingRecord)
	var periods []string
	for _, f := range filings {
		if !edgar.Is13F(f.Form) || f.Period == "" {
			continue
		}
		if _, ok := byPeriod[f.Period]; !ok {
			periods = append(periods, f.Period)
		}
		byPeriod[f.Period] = append(byPeriod[f.Period], f)
	}
	if len(periods) == 0 {
		return nil
	}

	// Period strings are ISO dates, so lexicographic order is date order.
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	var selected []models.FilingRecord
	var lastAccepted time.Time
	for _, p := range periods {
		if len(selected) == maxQuarters {
			break
		}
		date, err := time.Parse(dateLayout, p)
		if err != nil {
			continue
		}
		if len(selected) > 0 {
			gap := int(lastAccepted.Sub(date).Hours() / 24)
			if gap > maxQuarterGapDays {
				break // coverage break; older periods are disjoint history
			}
			if gap < minQuarterGapDays {
				continue
			}
		}
		selected = append(selected, bestForPeriod(byPeriod[p]))
		lastAccepted = date
	}
	return selected
}

// bestForPeriod prefers a filing whose primary document is not the generic
// cover-page placeholder.
func bestForPeriod(candidates []models.FilingRecord) models.FilingRecord {
	for _, c := range candidates {
		if strings.ToLower(c.PrimaryDoc) != "primary_doc.xml" {
			return c
		}
	}
	return candidates[0]
}
