package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"newssense/internal/logger"
	"newssense/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper collects raw news items for a ticker from multiple sources.
type Scraper struct {
	sources []NewsSource
	timeout time.Duration
	client  *http.Client
}

// NewsSource defines one news source configuration.
type NewsSource struct {
	Name      string
	BaseURL   string
	Path      string // e.g. "/quote/{ticker}/news"
	Selectors ItemSelectors
	RateLimit time.Duration
}

// ItemSelectors holds the CSS selectors for extracting item fields.
type ItemSelectors struct {
	Container string
	Title     string
	Summary   string
	URL       string
	Timestamp string
}

// NewScraper creates a scraper over the default financial news sources.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func defaultSources() []NewsSource {
	return []NewsSource{
		{
			Name:    "Yahoo Finance",
			BaseURL: "https://finance.yahoo.com",
			Path:    "/quote/{ticker}/news",
			Selectors: ItemSelectors{
				Container: "li.stream-item",
				Title:     "h3",
				Summary:   "p",
				URL:       "a",
				Timestamp: "div.publishing",
			},
			RateLimit: time.Second,
		},
		{
			Name:    "MarketWatch",
			BaseURL: "https://www.marketwatch.com",
			Path:    "/investing/stock/{ticker}",
			Selectors: ItemSelectors{
				Container: "div.article__content",
				Title:     "h3.article__headline a",
				Summary:   "p.article__summary",
				URL:       "h3.article__headline a",
				Timestamp: "span.article__timestamp",
			},
			RateLimit: time.Second,
		},
		{
			Name:    "Reuters",
			BaseURL: "https://www.reuters.com",
			Path:    "/site-search/?query={ticker}",
			Selectors: ItemSelectors{
				Container: "li.search-results__item__2oqiX",
				Title:     "h3 a",
				Summary:   "p",
				URL:       "h3 a",
				Timestamp: "time",
			},
			RateLimit: time.Second,
		},
	}
}

// Collect fetches up to maxItems news items for a ticker across all
// sources. A source that fails contributes nothing; the others proceed.
func (s *Scraper) Collect(ctx context.Context, ticker string, maxItems int) ([]types.NewsItem, error) {
	logger.Info(ctx, "Collecting news", "ticker", ticker, "sources", len(s.sources))

	perSource := maxItems / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.NewsItem
	for _, source := range s.sources {
		items, err := s.scrapeSource(ctx, source, ticker, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "ticker", ticker)
			continue
		}
		all = append(all, items...)

		time.Sleep(source.RateLimit)
	}

	if len(all) > maxItems {
		all = all[:maxItems]
	}

	logger.Info(ctx, "News collection completed", "ticker", ticker, "items", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source NewsSource, ticker string, maxItems int) ([]types.NewsItem, error) {
	var items []types.NewsItem

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(items) >= maxItems {
			return
		}

		title := cleanText(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		itemURL := e.ChildAttr(source.Selectors.URL, "href")
		if itemURL != "" && !strings.HasPrefix(itemURL, "http") {
			itemURL = source.BaseURL + itemURL
		}

		timestamp := cleanText(e.ChildText(source.Selectors.Timestamp))
		if timestamp == "" {
			timestamp = time.Now().Format("2006-01-02 15:04:05")
		}

		items = append(items, types.NewsItem{
			Title:     title,
			Summary:   cleanText(e.ChildText(source.Selectors.Summary)),
			Source:    source.Name,
			URL:       itemURL,
			Timestamp: timestamp,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	pageURL := source.BaseURL + strings.ReplaceAll(source.Path, "{ticker}", url.PathEscape(strings.ToLower(ticker)))
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	return s.enrichSummaries(ctx, items), nil
}

// enrichSummaries fetches the article page for items whose listing gave
// no summary, pulling the lead paragraphs out of the article body.
func (s *Scraper) enrichSummaries(ctx context.Context, items []types.NewsItem) []types.NewsItem {
	for i := range items {
		if items[i].Summary != "" || items[i].URL == "" {
			continue
		}
		if summary := s.fetchArticleSummary(ctx, items[i].URL); summary != "" {
			items[i].Summary = summary
		}
		time.Sleep(500 * time.Millisecond)
	}
	return items
}

// fetchArticleSummary extracts the first substantial paragraphs from an
// article page.
func (s *Scraper) fetchArticleSummary(ctx context.Context, articleURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article", err, "url", articleURL)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var paragraphs []string
	doc.Find("article p, div.article-body p, div.content-body p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := cleanText(sel.Text())
		if len(text) > 40 {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 2
	})

	return strings.Join(paragraphs, " ")
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
