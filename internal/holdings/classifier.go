package holdings

import (
	"math"
	"sort"

	"github.com/fundwatch/fundwatch/pkg/models"
)

// maxPlausiblePct is the sanity bound on a quarter-over-quarter share
// move. Larger apparent swings are usually a share-count unit change
// between filings or a sub-advisor restructuring, not a trade, so they are
// reported as unknown rather than as a misleading number.
const maxPlausiblePct = 500.0

// topN is how many holdings a quarter snapshot exposes externally. Totals
// always reflect the full list.
const topN = 50

// ClassifyChanges annotates each current holding with how it moved against
// the immediately older quarter. Matching is by CUSIP first, then by
// resolved ticker; prior share counts are aggregated across all prior rows
// sharing the key, since one security can appear as several pre-merge rows.
func ClassifyChanges(curr, prev []models.Holding) []models.Holding {
	prevByCUSIP := make(map[string]int64)
	prevByTicker := make(map[string]int64)
	for _, h := range prev {
		if h.CUSIP != "" {
			prevByCUSIP[h.CUSIP] += h.Shares
		}
		if h.Ticker != "" {
			prevByTicker[h.Ticker] += h.Shares
		}
	}

	for i := range curr {
		h := &curr[i]
		priorShares, matched := int64(0), false
		if h.CUSIP != "" {
			priorShares, matched = lookup(prevByCUSIP, h.CUSIP)
		}
		if !matched && h.Ticker != "" {
			priorShares, matched = lookup(prevByTicker, h.Ticker)
		}

		if !matched {
			h.Change = models.ChangeNew
			h.ChangePct = nil
			continue
		}

		delta := h.Shares - priorShares
		if priorShares == 0 {
			// No percentage is computable from a zero base.
			h.ChangePct = nil
			h.Change = classOf(delta)
			continue
		}

		pct := round1(float64(delta) / float64(priorShares) * 100)
		if math.Abs(pct) > maxPlausiblePct {
			h.Change = models.ChangeUnknown
			h.ChangePct = nil
			continue
		}
		h.Change = classOf(delta)
		h.ChangePct = &pct
	}
	return curr
}

func lookup(m map[string]int64, key string) (int64, bool) {
	v, ok := m[key]
	return v, ok
}

func classOf(delta int64) models.ChangeClass {
	switch {
	case delta > 0:
		return models.ChangeIncreased
	case delta < 0:
		return models.ChangeReduced
	default:
		return models.ChangeUnchanged
	}
}

// MarkAllUnknown classifies every holding as unknown. Applied to the
// oldest quarter in a chain, which has no elder quarter to compare
// against, and to any quarter whose elder could not be fetched.
func MarkAllUnknown(hs []models.Holding) []models.Holding {
	for i := range hs {
		hs[i].Change = models.ChangeUnknown
		hs[i].ChangePct = nil
	}
	return hs
}

// MergeBySymbol combines holdings that share a resolved ticker but carry
// different CUSIPs, e.g. multiple share classes of one company. Applied
// after classification and before final ranking. When the merged rows
// disagree on classification the higher-priority one wins, keeping its
// change percent.
func MergeBySymbol(in []models.Holding) []models.Holding {
	out := make([]models.Holding, 0, len(in))
	index := make(map[string]int)
	for _, h := range in {
		if h.Ticker == "" {
			out = append(out, h)
			continue
		}
		i, ok := index[h.Ticker]
		if !ok {
			index[h.Ticker] = len(out)
			out = append(out, h)
			continue
		}
		out[i].Shares += h.Shares
		out[i].ValueThousands += h.ValueThousands
		out[i].ValueMillions = round1(float64(out[i].ValueThousands) / 1000)
		if h.Change.Priority() > out[i].Change.Priority() {
			out[i].Change = h.Change
			out[i].ChangePct = h.ChangePct
		}
	}
	return out
}

// Rank finalizes one quarter's list: sort descending by value, assign
// ranks, compute percent-of-portfolio over the full list, and truncate the
// exposed slice to the top N. The returned totals always describe the full
// list, not the truncated one.
func Rank(hs []models.Holding) (top []models.Holding, totalHoldings int, totalValueMillions float64) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].ValueThousands > hs[j].ValueThousands
	})

	var totalK int64
	for _, h := range hs {
		totalK += h.ValueThousands
	}
	for i := range hs {
		hs[i].Rank = i + 1
		if totalK > 0 {
			hs[i].PctPortfolio = round2(float64(hs[i].ValueThousands) / float64(totalK) * 100)
		} else {
			hs[i].PctPortfolio = 0
		}
	}

	top = hs
	if len(top) > topN {
		top = top[:topN]
	}
	return top, len(hs), round1(float64(totalK) / 1000)
}
