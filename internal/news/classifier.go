package news

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"newssense/internal/logger"
	"newssense/internal/types"
)

// Sentiment category boundaries. A polarity of exactly +/-0.2 is neutral.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2

	// Overall label boundaries for the batch average.
	labelPositiveThreshold = 0.1
	labelNegativeThreshold = -0.1

	maxKeywords = 20
)

// CategorizeSentiment maps a polarity score to its category. The same
// boundaries apply wherever per-item sentiment is bucketed, including
// the correlation engine's daily counts.
func CategorizeSentiment(score float64) string {
	switch {
	case score > positiveThreshold:
		return "positive"
	case score < negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// Classifier scores, categorizes and topic-tags news items.
type Classifier struct {
	scorer    *Scorer
	topics    []topicRule
	stopWords map[string]bool

	// now is swappable for tests; stamps items that arrive without a timestamp.
	now func() time.Time
}

// topicRule tags an item with Name when its content contains any keyword.
// Rules are an ordered slice so topic counting is reproducible.
type topicRule struct {
	Name     string
	Keywords []string
}

// NewClassifier creates a classifier with the fixed topic taxonomy.
func NewClassifier() *Classifier {
	return &Classifier{
		scorer:    NewScorer(),
		topics:    topicTaxonomy(),
		stopWords: loadStopWords(),
		now:       time.Now,
	}
}

// topicTaxonomy is the deterministic topic -> keyword rule table.
// Substring containment is intentional: precision over recall.
func topicTaxonomy() []topicRule {
	return []topicRule{
		{"earnings", []string{"earnings", "revenue", "profit", "loss", "quarter", "financial", "eps", "income", "guidance"}},
		{"merger_acquisition", []string{"merger", "acquisition", "takeover", "deal", "buyout", "purchase", "acquire"}},
		{"product_launch", []string{"launch", "release", "new product", "update", "unveil", "introduce", "announcement"}},
		{"leadership", []string{"ceo", "executive", "appoint", "resign", "management", "leader", "director", "board"}},
		{"legal_regulatory", []string{"lawsuit", "court", "legal", "sue", "settlement", "regulation", "compliance", "fine"}},
		{"market_trend", []string{"market", "index", "dow", "nasdaq", "s&p", "bull", "bear", "trend", "correction"}},
		{"technology_innovation", []string{"tech", "technology", "innovation", "patent", "ai", "artificial intelligence", "research"}},
		{"economic_indicators", []string{"fed", "inflation", "interest rate", "economy", "growth", "recession", "gdp"}},
		{"analyst_rating", []string{"analyst", "upgrade", "downgrade", "rating", "target", "buy", "sell", "hold", "overweight"}},
		{"competition", []string{"competitor", "rivalry", "market share", "outperform", "versus", "competition"}},
		{"international", []string{"global", "international", "foreign", "overseas", "export", "import", "tariff", "trade"}},
	}
}

func loadStopWords() map[string]bool {
	words := []string{
		"this", "that", "these", "those", "there", "their", "they",
		"what", "when", "where", "which", "while", "with", "would",
		"about", "above", "after", "again", "against", "could", "should",
		"from", "have", "having", "here", "more", "once", "only", "same", "some",
		"such", "than", "then", "through",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

var keywordPattern = regexp.MustCompile(`\b[a-z][a-z\-]{2,}\b`)

// EmptyAnalysis returns the well-defined "no news" structure: zeroed
// counts, empty lists, Neutral label.
func EmptyAnalysis() *types.NewsAnalysis {
	return &types.NewsAnalysis{
		Sentiments: []types.SentimentRecord{},
		Topics:     map[string]int{},
		Entities: map[string][]string{
			"tickers":   {},
			"companies": {},
			"people":    {},
			"topics":    {},
		},
		Keywords:  []string{},
		Sources:   map[string]int{},
		Label:     "Neutral",
		NewsItems: []types.SentimentRecord{},
	}
}

// AnalyzeImpact scores, categorizes and aggregates a batch of raw news
// items. Items without a title are dropped; no valid items yields the
// empty structure, never an error.
func (c *Classifier) AnalyzeImpact(ctx context.Context, items []types.NewsItem) *types.NewsAnalysis {
	valid := make([]types.NewsItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) != "" {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		logger.Warn(ctx, "No valid news items to analyze after filtering")
		return EmptyAnalysis()
	}

	logger.Info(ctx, "Analyzing news impact", "items", len(valid))

	analysis := EmptyAnalysis()

	totalSentiment := 0.0
	keywordCounts := map[string]int{}
	keywordOrder := map[string]int{}
	entitySets := map[string]map[string]bool{}

	for _, item := range valid {
		content := item.Title
		if item.Summary != "" {
			content += " " + item.Summary
		}

		score := c.scorer.Polarity(content)
		category := CategorizeSentiment(score)
		switch category {
		case "positive":
			analysis.Distribution.Positive++
		case "negative":
			analysis.Distribution.Negative++
		default:
			analysis.Distribution.Neutral++
		}

		c.countKeywords(content, keywordCounts, keywordOrder)

		contentLower := strings.ToLower(content)
		var detected []string
		for _, rule := range c.topics {
			for _, kw := range rule.Keywords {
				if strings.Contains(contentLower, kw) {
					analysis.Topics[rule.Name]++
					detected = append(detected, rule.Name)
					break
				}
			}
		}

		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		timestamp := item.Timestamp
		if timestamp == "" {
			timestamp = c.now().Format("2006-01-02 15:04:05")
		}

		record := types.SentimentRecord{
			Title:     item.Title,
			Sentiment: score,
			Category:  category,
			Source:    source,
			URL:       item.URL,
			Timestamp: timestamp,
			Topics:    detected,
			Entities:  item.Entities,
		}

		for entityType, names := range item.Entities {
			set, ok := entitySets[entityType]
			if !ok {
				set = map[string]bool{}
				entitySets[entityType] = set
			}
			for _, name := range names {
				set[name] = true
			}
		}

		analysis.Sources[source]++
		analysis.Sentiments = append(analysis.Sentiments, record)
		totalSentiment += score
	}

	analysis.AverageSentiment = totalSentiment / float64(len(valid))
	switch {
	case analysis.AverageSentiment > labelPositiveThreshold:
		analysis.Label = "Positive"
	case analysis.AverageSentiment < labelNegativeThreshold:
		analysis.Label = "Negative"
	default:
		analysis.Label = "Neutral"
	}

	// Most impactful first: descending absolute polarity, stable so
	// equal magnitudes keep arrival order.
	analysis.NewsItems = make([]types.SentimentRecord, len(analysis.Sentiments))
	copy(analysis.NewsItems, analysis.Sentiments)
	sort.SliceStable(analysis.NewsItems, func(i, j int) bool {
		return abs(analysis.NewsItems[i].Sentiment) > abs(analysis.NewsItems[j].Sentiment)
	})

	analysis.Keywords = topKeywords(keywordCounts, keywordOrder, maxKeywords)

	for entityType, set := range entitySets {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		analysis.Entities[entityType] = names
	}

	return analysis
}

// countKeywords tallies lowercase alphabetic tokens (hyphens allowed),
// skipping short tokens and stop words. keywordOrder records first
// encounter so frequency ties break deterministically.
func (c *Classifier) countKeywords(content string, counts map[string]int, order map[string]int) {
	for _, word := range keywordPattern.FindAllString(strings.ToLower(content), -1) {
		if len(word) <= 3 || c.stopWords[word] {
			continue
		}
		if _, seen := order[word]; !seen {
			order[word] = len(order)
		}
		counts[word]++
	}
}

// topKeywords returns up to n keywords by descending frequency, ties
// broken by first-encountered order.
func topKeywords(counts map[string]int, order map[string]int, n int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
