package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"newssense/internal/logger"
	"newssense/internal/types"
)

// GenerateExplanation synthesizes the ordered prose narrative: price
// move, news impact, market context, sector context, technicals, key
// takeaway. Each section is independently failable; a section that
// cannot be produced contributes nothing. When no section can be
// produced at all, a fixed fallback sentence is returned.
func (a *MarketAnalyzer) GenerateExplanation(ctx context.Context, sec *types.SecurityData, analysis *types.NewsAnalysis, ticker string) string {
	if sec == nil {
		return fmt.Sprintf("Unable to generate analysis for %s due to missing market data.", ticker)
	}

	logger.Info(ctx, "Generating explanation", "ticker", ticker)

	var parts []string
	appendPart := func(text string, ok bool) {
		if ok && text != "" {
			parts = append(parts, text)
		}
	}

	appendPart(priceSummary(sec, ticker))
	appendPart(newsSummary(analysis, ticker))
	appendPart(marketContextSummary(sec))
	appendPart(sectorSummary(sec))
	appendPart(technicalSummary(sec))
	appendPart(keyTakeaway(sec, analysis, ticker))

	if len(parts) == 0 {
		return fmt.Sprintf("Analysis for %s is currently unavailable. Please try again later.", ticker)
	}
	return strings.Join(parts, "\n\n")
}

// intradayMove returns the open -> last-close percent change for the
// today series.
func intradayMove(sec *types.SecurityData) (openPrice, lastClose, changePct float64, ok bool) {
	today := sec.Series(types.TimeframeToday)
	if len(today) == 0 {
		return 0, 0, 0, false
	}
	openPrice = today[0].Open
	lastClose = today[len(today)-1].Close
	if openPrice == 0 {
		return 0, 0, 0, false
	}
	changePct = (lastClose - openPrice) / openPrice * 100
	return openPrice, lastClose, changePct, true
}

func priceSummary(sec *types.SecurityData, ticker string) (string, bool) {
	openPrice, lastClose, changePct, ok := intradayMove(sec)
	if !ok {
		return "", false
	}

	today := sec.Series(types.TimeframeToday)
	dayHigh, dayLow := today[0].High, today[0].Low
	for _, c := range today {
		dayHigh = math.Max(dayHigh, c.High)
		dayLow = math.Min(dayLow, c.Low)
	}

	direction := "down"
	if changePct > 0 {
		direction = "up"
	}

	// Strictly >3 reads as significant; exactly 3.00% is moderate.
	magnitude := "moderately"
	if math.Abs(changePct) < 1 {
		magnitude = "slightly"
	} else if math.Abs(changePct) > 3 {
		magnitude = "significantly"
	}

	summary := fmt.Sprintf("%s is %s %s by %.2f%% today, currently trading at $%.2f.",
		ticker, direction, magnitude, math.Abs(changePct), lastClose)
	summary += fmt.Sprintf(" The stock opened at $%.2f and has ranged from $%.2f to $%.2f during the session.",
		openPrice, dayLow, dayHigh)

	if sec.Stats != nil && sec.Stats.AverageVolume > 0 {
		totalVolume := 0.0
		for _, c := range today {
			totalVolume += c.Volume
		}
		ratio := totalVolume / sec.Stats.AverageVolume
		volumeDesc := "in line with"
		if ratio > 1.2 {
			volumeDesc = "higher than"
		} else if ratio < 0.8 {
			volumeDesc = "lower than"
		}
		summary += fmt.Sprintf(" Trading volume is %s average.", volumeDesc)
	}

	return summary, true
}

func newsSummary(analysis *types.NewsAnalysis, ticker string) (string, bool) {
	if analysis == nil || len(analysis.Sentiments) == 0 {
		return fmt.Sprintf("No significant news for %s was found.", ticker), true
	}

	avg := analysis.AverageSentiment
	sentimentDesc := "neutral"
	if avg > 0.2 {
		sentimentDesc = "positive"
	} else if avg < -0.2 {
		sentimentDesc = "negative"
	}

	summary := fmt.Sprintf("Recent news sentiment for %s is overall %s with %d articles from %d sources.",
		ticker, sentimentDesc, len(analysis.Sentiments), len(analysis.Sources))

	if topics := topTopics(analysis.Topics, 3); len(topics) > 0 {
		readable := make([]string, len(topics))
		for i, t := range topics {
			readable[i] = strings.ReplaceAll(t, "_", " ")
		}
		summary += fmt.Sprintf(" Key topics include %s.", strings.Join(readable, ", "))
	}

	impactful := analysis.NewsItems
	if len(impactful) > 2 {
		impactful = impactful[:2]
	}
	if len(impactful) > 0 {
		summary += " Notable headlines:"
		for _, item := range impactful {
			word := "neutral"
			if item.Sentiment > 0.2 {
				word = "positive"
			} else if item.Sentiment < -0.2 {
				word = "negative"
			}
			summary += fmt.Sprintf("\n- %q (%s, %s)", item.Title, item.Source, word)
		}
	}

	return summary, true
}

// topTopics returns up to n topic names with nonzero counts, most
// frequent first, name order breaking ties.
func topTopics(topics map[string]int, n int) []string {
	names := make([]string, 0, len(topics))
	for name, count := range topics {
		if count > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if topics[names[i]] != topics[names[j]] {
			return topics[names[i]] > topics[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func marketContextSummary(sec *types.SecurityData) (string, bool) {
	if len(sec.MarketContext) == 0 {
		return "", false
	}

	names := make([]string, 0, len(sec.MarketContext))
	for name := range sec.MarketContext {
		names = append(names, name)
	}
	sort.Strings(names)

	phrases := make([]string, 0, len(names))
	upCount, downCount := 0, 0
	for _, name := range names {
		quote := sec.MarketContext[name]
		direction := "down"
		if quote.ChangePct > 0 {
			direction = "up"
			upCount++
		} else if quote.ChangePct < 0 {
			downCount++
		}
		phrases = append(phrases, fmt.Sprintf("%s is %s %.2f%%", name, direction, math.Abs(quote.ChangePct)))
	}

	summary := "Market Context: " + strings.Join(phrases, ", ") + "."
	if upCount > downCount {
		summary += " The broader market is showing positive momentum today."
	} else if downCount > upCount {
		summary += " The broader market is trending lower today."
	} else {
		summary += " Market sentiment is mixed today."
	}

	return summary, true
}

func sectorSummary(sec *types.SecurityData) (string, bool) {
	if sec.Info == nil || sec.Info.Sector == "" || len(sec.SectorContext) == 0 {
		return "", false
	}
	sectorPerf, ok := sec.SectorContext[sec.Info.Sector]
	if !ok {
		return "", false
	}

	direction := "down"
	if sectorPerf > 0 {
		direction = "up"
	}
	summary := fmt.Sprintf("Sector Performance: The %s sector is %s %.2f%% today.",
		sec.Info.Sector, direction, math.Abs(sectorPerf))

	if _, _, changePct, ok := intradayMove(sec); ok {
		if (changePct > 0 && sectorPerf > 0) || (changePct < 0 && sectorPerf < 0) {
			relative := "underperforming"
			if math.Abs(changePct) > math.Abs(sectorPerf) {
				relative = "outperforming"
			}
			summary += fmt.Sprintf(" The stock is %s its sector.", relative)
		} else {
			summary += " The stock is moving contrary to its sector today."
		}
	}

	return summary, true
}

func technicalSummary(sec *types.SecurityData) (string, bool) {
	tech := sec.Technical
	if tech.Empty() || len(tech.Signals) == 0 {
		return "", false
	}

	buySignals, sellSignals, neutralSignals := 0, 0, 0
	for _, signal := range tech.Signals {
		switch signal {
		case "buy":
			buySignals++
		case "sell":
			sellSignals++
		default:
			neutralSignals++
		}
	}

	verdict := "neutral"
	if buySignals > sellSignals && buySignals > neutralSignals {
		verdict = "bullish"
	} else if sellSignals > buySignals && sellSignals > neutralSignals {
		verdict = "bearish"
	}

	summary := fmt.Sprintf("Technical Analysis: Technical indicators are showing %s signals.", verdict)

	var keyIndicators []string
	if tech.RSI != nil {
		desc := "neutral"
		if tech.RSI.Value > 70 {
			desc = "overbought"
		} else if tech.RSI.Value < 30 {
			desc = "oversold"
		}
		keyIndicators = append(keyIndicators, fmt.Sprintf("RSI is %.1f (%s)", tech.RSI.Value, desc))
	}
	if tech.MACD != nil {
		desc := "bearish"
		if tech.MACD.MACD > 0 {
			desc = "bullish"
		}
		keyIndicators = append(keyIndicators, fmt.Sprintf("MACD is %s", desc))
	}
	if len(keyIndicators) > 0 {
		summary += " " + strings.Join(keyIndicators, ", ") + "."
	}

	return summary, true
}

// keyTakeaway attributes the day's move to exactly one dominant factor,
// checked in priority order: news, market, sector, company-specific.
func keyTakeaway(sec *types.SecurityData, analysis *types.NewsAnalysis, ticker string) (string, bool) {
	_, _, changePct, ok := intradayMove(sec)
	if !ok {
		return "", false
	}

	avgSentiment := 0.0
	topics := map[string]int{}
	if analysis != nil {
		avgSentiment = analysis.AverageSentiment
		topics = analysis.Topics
	}

	marketTrend := 0.0
	if len(sec.MarketContext) > 0 {
		for _, quote := range sec.MarketContext {
			marketTrend += quote.ChangePct
		}
		marketTrend /= float64(len(sec.MarketContext))
	}

	sectorTrend := 0.0
	sector := ""
	if sec.Info != nil {
		sector = sec.Info.Sector
		if perf, ok := sec.SectorContext[sector]; ok {
			sectorTrend = perf
		}
	}

	sameSign := func(trend float64) bool {
		return (changePct > 0 && trend > 0) || (changePct < 0 && trend < 0)
	}

	var factor, description string
	switch {
	case math.Abs(avgSentiment) > 0.3 && sameSign(avgSentiment):
		factor = "news"
		sentimentDesc := "negative"
		if avgSentiment > 0 {
			sentimentDesc = "positive"
		}
		description = fmt.Sprintf("recent %s news", sentimentDesc)
		if top := topTopics(topics, 1); len(top) > 0 {
			description += fmt.Sprintf(" related to %s", strings.ReplaceAll(top[0], "_", " "))
		}
	case math.Abs(marketTrend) > 1.0 && sameSign(marketTrend):
		factor = "market"
		trendDesc := "negative"
		if marketTrend > 0 {
			trendDesc = "positive"
		}
		description = fmt.Sprintf("overall %s market movement", trendDesc)
	case math.Abs(sectorTrend) > 1.5 && sameSign(sectorTrend):
		factor = "sector"
		trendDesc := "weakness"
		if sectorTrend > 0 {
			trendDesc = "strength"
		}
		description = fmt.Sprintf("%s sector %s", sector, trendDesc)
	default:
		factor = "company"
		description = "company-specific factors"
		if topics["earnings"] > 0 {
			description = "recent earnings or financial news"
		}
	}

	direction := "decline"
	if changePct > 0 {
		direction = "gain"
	}
	takeaway := fmt.Sprintf("Key Takeaway: The primary driver behind %s's %s today appears to be %s.",
		ticker, direction, description)

	switch factor {
	case "news":
		takeaway += " Investors should monitor for additional news developments."
	case "market":
		takeaway += " The stock is currently moving with the broader market trend."
	case "sector":
		watched := sector
		if watched == "" {
			watched = "same"
		}
		takeaway += fmt.Sprintf(" Watch other stocks in the %s sector for similar patterns.", watched)
	}

	return takeaway, true
}
