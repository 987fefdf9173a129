package leads

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/utils"
)

const (
	searchURL = "https://www.linkedin.com/jobs/search/"
	// The job board serves a stripped page to obvious bots.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	defaultMaxPerSearch = 5
	defaultSearchDelay  = 2 * time.Second
)

// Client scrapes the public job board search pages.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	SearchURL  string
}

// SearchParams describes one scraping run: every keyword is searched in every
// location, with a mandatory delay between requests.
type SearchParams struct {
	Keywords         []string
	Locations        []string
	TimePeriod       string
	MaxJobsPerSearch int
	Delay            time.Duration
	TargetCompanies  []string
	RemoteIndicators []string
}

func New(logger *zap.Logger) *Client {
	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
		SearchURL: searchURL,
	}
}

// Search runs every keyword/location combination, deduplicates the combined
// results by fingerprint and drops postings outside the requested locations.
// Individual search failures are logged and skipped; the scrape keeps going.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*Jobs, error) {
	if params == nil {
		return nil, fmt.Errorf("search params are required")
	}

	maxPerSearch := params.MaxJobsPerSearch
	if maxPerSearch <= 0 {
		maxPerSearch = defaultMaxPerSearch
	}

	delay := params.Delay
	if delay <= 0 {
		delay = defaultSearchDelay
	}

	jobs := &Jobs{}

	for _, keyword := range params.Keywords {
		for _, location := range params.Locations {
			found, err := c.searchOne(ctx, keyword, location, params, maxPerSearch)
			if err != nil {
				c.logger.Warn("search failed",
					zap.String("keyword", keyword),
					zap.String("location", location),
					zap.Error(err),
				)
			} else {
				jobs.Items = append(jobs.Items, found...)
			}

			// Be nice to the job board.
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	removed := jobs.Dedup()
	c.logger.Info("scraping finished",
		zap.Int("found", jobs.Len()+removed),
		zap.Int("duplicates_removed", removed),
	)

	kept, dropped := FilterByLocation(jobs, params.Locations, params.RemoteIndicators)
	if dropped > 0 {
		c.logger.Info("dropped postings outside requested locations", zap.Int("count", dropped))
	}

	return kept, nil
}

func (c *Client) searchOne(ctx context.Context, keyword, location string, params *SearchParams, maxPerSearch int) ([]*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("keywords", keyword)
	q.Set("location", location)
	if params.TimePeriod != "" {
		q.Set("f_TPR", params.TimePeriod)
	}
	q.Set("position", "1")
	q.Set("pageNum", "0")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseSearchPage(doc, keyword, location, params.TargetCompanies, maxPerSearch), nil
}

// parseSearchPage extracts job cards from a search result document.
func parseSearchPage(doc *goquery.Document, keyword, location string, targets []string, limit int) []*Job {
	var jobs []*Job

	doc.Find("div.base-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(jobs) >= limit {
			return false
		}

		title := strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text())
		company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").First().Text())
		if title == "" || company == "" {
			return true
		}

		jobLocation := strings.TrimSpace(card.Find("span.job-search-card__location").First().Text())
		if jobLocation == "" {
			jobLocation = "Unknown"
		}

		posted := strings.TrimSpace(card.Find("time").First().Text())
		if posted == "" {
			posted = "Recently"
		}

		jobURL, _ := card.Find("a.base-card__full-link").First().Attr("href")

		jobs = append(jobs, &Job{
			Title:          title,
			Company:        company,
			Location:       jobLocation,
			Posted:         posted,
			URL:            strings.TrimSpace(jobURL),
			Keyword:        keyword,
			SearchLocation: location,
			IsTarget:       isTargetCompany(company, targets),
		})

		return true
	})

	return jobs
}

func isTargetCompany(company string, targets []string) bool {
	lower := strings.ToLower(company)
	for _, target := range targets {
		if target == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(target)) {
			return true
		}
	}
	return false
}

// FilterByLocation keeps postings whose location matches one of the allowed
// locations, plus true remote postings which may be anywhere. Returns the kept
// collection and the number dropped.
func FilterByLocation(jobs *Jobs, allowed []string, remoteIndicators []string) (*Jobs, int) {
	kept := &Jobs{}

	for _, job := range jobs.Items {
		if locationAllowed(job.Location, allowed, remoteIndicators) {
			kept.Items = append(kept.Items, job)
		}
	}

	return kept, jobs.Len() - kept.Len()
}

func locationAllowed(jobLocation string, allowed []string, remoteIndicators []string) bool {
	location := strings.ToLower(strings.TrimSpace(jobLocation))

	for _, indicator := range remoteIndicators {
		if indicator != "" && strings.Contains(location, strings.ToLower(indicator)) {
			return true
		}
	}

	for _, loc := range allowed {
		loc = strings.ToLower(strings.TrimSpace(loc))
		if loc == "" || loc == "remote" {
			continue
		}
		if location == loc || strings.Contains(location, loc) {
			return true
		}
	}

	return false
}
