package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/types"
)

// NewsScraper pulls company headlines from public finance sites. It is a
// fallback for the REST news endpoint: scraped items carry the as-of date
// because publish timestamps on listing pages are unreliable.
type NewsScraper struct {
	sources []newsSource
	timeout time.Duration
}

type newsSource struct {
	Name      string
	SearchURL string // {symbol} is replaced with the ticker
	Selectors articleSelectors
	RateLimit time.Duration
}

type articleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
}

// NewNewsScraper creates a scraper over the default source list.
func NewNewsScraper(timeout time.Duration) *NewsScraper {
	return &NewsScraper{sources: defaultSources(), timeout: timeout}
}

func defaultSources() []newsSource {
	return []newsSource{
		{
			Name:      "YahooFinance",
			SearchURL: "https://finance.yahoo.com/quote/{symbol}/news",
			Selectors: articleSelectors{
				ArticleContainer: "li.stream-item",
				Title:            "h3",
				URL:              "a",
				Summary:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:      "Finviz",
			SearchURL: "https://finviz.com/quote.ashx?t={symbol}",
			Selectors: articleSelectors{
				ArticleContainer: "tr.news_table_row",
				Title:            "a.tab-link-news",
				URL:              "a.tab-link-news",
				Summary:          "",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape collects up to limit headlines for ticker across all sources.
func (s *NewsScraper) Scrape(ctx context.Context, ticker, asOf string, limit int) ([]types.CompanyNews, error) {
	var items []types.CompanyNews
	for _, src := range s.sources {
		if len(items) >= limit {
			break
		}
		got, err := s.scrapeSource(ctx, src, ticker, asOf, limit-len(items))
		if err != nil {
			logger.Warn(ctx, "News source scrape failed", "source", src.Name, "ticker", ticker, "error", err)
			continue
		}
		items = append(items, got...)
	}
	return items, nil
}

func (s *NewsScraper) scrapeSource(ctx context.Context, src newsSource, ticker, asOf string, limit int) ([]types.CompanyNews, error) {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: src.RateLimit})

	var items []types.CompanyNews
	c.OnHTML(src.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}
		if item, ok := articleFromSelection(e.DOM, src, asOf); ok {
			items = append(items, item)
		}
	})
	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	target := strings.ReplaceAll(src.SearchURL, "{symbol}", ticker)
	if err := c.Visit(target); err != nil {
		return nil, err
	}
	c.Wait()
	return items, nil
}

// articleFromSelection extracts one news item from a listing row.
func articleFromSelection(sel *goquery.Selection, src newsSource, asOf string) (types.CompanyNews, bool) {
	title := strings.TrimSpace(sel.Find(src.Selectors.Title).First().Text())
	if title == "" {
		return types.CompanyNews{}, false
	}
	href, _ := sel.Find(src.Selectors.URL).First().Attr("href")

	item := types.CompanyNews{
		Date:   asOf,
		Title:  title,
		URL:    href,
		Source: src.Name,
	}
	if src.Selectors.Summary != "" {
		item.Description = strings.TrimSpace(sel.Find(src.Selectors.Summary).First().Text())
	}
	return item, true
}
