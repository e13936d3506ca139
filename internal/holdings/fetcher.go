package holdings

import (
	"context"

	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/internal/edgar"
	"github.com/fundwatch/fundwatch/pkg/models"
)

// Fetcher runs the full per-fund pipeline: list filings, select the
// quarter chain, locate and parse each quarter's infotable, classify
// changes, and rank.
type Fetcher struct {
	edgar *edgar.Client
	log   *zap.Logger
}

func NewFetcher(client *edgar.Client, log *zap.Logger) *Fetcher {
	return &Fetcher{edgar: client, log: log}
}

// fetchedQuarter pairs a selected filing with its parsed raw holdings.
type fetchedQuarter struct {
	filing   models.FilingRecord
	holdings []models.Holding
}

// FetchFund produces one fund's result. Failures are contained: a quarter
// whose document cannot be located or parsed is skipped; the error field
// is set only when no quarter yields data, so callers can tell "no
// holdings" from "fetch failed".
func (f *Fetcher) FetchFund(ctx context.Context, fund models.Fund) *models.FundResult {
	log := f.log.With(zap.String("fund", fund.Name), zap.String("cik", fund.CIK))
	log.Info("fetching 13F holdings")

	result := &models.FundResult{CIK: fund.CIK}

	filings, err := f.edgar.Filings(ctx, fund.CIK)
	if err != nil {
		log.Error("filing directory fetch failed", zap.Error(err))
		result.Error = err.Error()
		return result
	}

	chain := SelectQuarters(filings)
	if len(chain) == 0 {
		result.Error = "no 13F-HR filings found"
		return result
	}
	log.Info("selected quarter chain",
		zap.Int("quarters", len(chain)), zap.String("latest_period", chain[0].Period))

	// All selected quarters must be fetched before any classification,
	// since each quarter is annotated against its next-older neighbor.
	var quarters []fetchedQuarter
	for _, filing := range chain {
		hs, err := f.fetchQuarter(ctx, fund.CIK, filing)
		if err != nil {
			log.Warn("skipping quarter",
				zap.String("period", filing.Period), zap.Error(err))
			continue
		}
		quarters = append(quarters, fetchedQuarter{filing: filing, holdings: hs})
	}
	if len(quarters) == 0 {
		result.Error = "could not locate holdings table for any selected quarter"
		return result
	}

	for i := range quarters {
		if i+1 < len(quarters) {
			quarters[i].holdings = ClassifyChanges(quarters[i].holdings, quarters[i+1].holdings)
		} else {
			// Oldest available quarter has no elder to compare against.
			quarters[i].holdings = MarkAllUnknown(quarters[i].holdings)
		}
	}

	for _, q := range quarters {
		merged := MergeBySymbol(q.holdings)
		top, count, totalM := Rank(merged)
		result.Quarters = append(result.Quarters, models.QuarterSnapshot{
			Period:             q.filing.Period,
			FilingDate:         q.filing.FilingDate,
			Holdings:           top,
			TotalHoldings:      count,
			TotalValueMillions: totalM,
		})
	}

	latest := result.Quarters[0]
	result.FilingDate = latest.FilingDate
	result.Period = latest.Period
	result.Holdings = latest.Holdings
	result.TotalHoldings = latest.TotalHoldings
	result.TotalValueMillions = latest.TotalValueMillions

	log.Info("fund fetched",
		zap.Int("quarters", len(result.Quarters)),
		zap.Int("holdings", result.TotalHoldings),
		zap.Float64("total_value_millions", result.TotalValueMillions))
	return result
}

func (f *Fetcher) fetchQuarter(ctx context.Context, cik string, filing models.FilingRecord) ([]models.Holding, error) {
	url, err := f.edgar.LocateInfotable(ctx, cik, filing.Accession, filing.PrimaryDoc)
	if err != nil {
		return nil, err
	}
	body, err := f.edgar.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseInfotable(body)
}
