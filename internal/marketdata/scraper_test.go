package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const listingHTML = `<html><body><ul>
<li class="stream-item"><h3>First headline</h3><a href="/news/first"></a><p>First summary</p></li>
<li class="stream-item"><h3>Second headline</h3><a href="/news/second"></a><p>Second summary</p></li>
<li class="stream-item"><h3></h3><a href="/news/untitled"></a></li>
</ul></body></html>`

func testScraper(t *testing.T) (*NewsScraper, *int) {
	t.Helper()
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, listingHTML)
	}))
	t.Cleanup(srv.Close)

	s := &NewsScraper{
		timeout: 5 * time.Second,
		sources: []newsSource{{
			Name:      "TestSource",
			SearchURL: srv.URL + "/quote/{symbol}/news",
			Selectors: articleSelectors{
				ArticleContainer: "li.stream-item",
				Title:            "h3",
				URL:              "a",
				Summary:          "p",
			},
		}},
	}
	return s, &hits
}

func TestScrapeExtractsArticles(t *testing.T) {
	s, _ := testScraper(t)

	items, err := s.Scrape(context.Background(), "AAPL", "2024-06-28", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (untitled row dropped)", len(items))
	}
	first := items[0]
	if first.Title != "First headline" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "/news/first" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Description != "First summary" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Date != "2024-06-28" {
		t.Errorf("date = %q, want the as-of date", first.Date)
	}
	if first.Source != "TestSource" {
		t.Errorf("source = %q", first.Source)
	}
}

func TestScrapeHonorsLimit(t *testing.T) {
	s, _ := testScraper(t)

	items, err := s.Scrape(context.Background(), "AAPL", "2024-06-28", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
}

func TestScrapeCancelledContext(t *testing.T) {
	s, hits := testScraper(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := s.Scrape(ctx, "AAPL", "2024-06-28", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0 with cancelled context", len(items))
	}
	if *hits != 0 {
		t.Errorf("server hits = %d, want request aborted before send", *hits)
	}
}
