package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/de6igz/trend-agent/internal/adapters/keywords"
	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/infra/metrics"
)

const googleNewsLimit = 10

// GoogleNews получает темы из RSS-поиска Google News.
type GoogleNews struct {
	http    *http.Client
	parser  *gofeed.Parser
	feedURL string
}

var _ domain.Source = (*GoogleNews)(nil)

// NewGoogleNews создаёт источник Google News.
func NewGoogleNews(feedURL string, timeout time.Duration) *GoogleNews {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleNews{
		http:    &http.Client{Timeout: timeout},
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// Name возвращает имя источника.
func (g *GoogleNews) Name() string { return "Google News" }

// Fetch выгружает свежие записи RSS и нормализует их в темы.
func (g *GoogleNews) Fetch(ctx context.Context) (topics []domain.Topic, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSourceFetch(g.Name(), start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google news: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news: unexpected status %d", resp.StatusCode)
	}

	feed, err := g.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google news: parse feed: %w", err)
	}

	items := feed.Items
	if len(items) > googleNewsLimit {
		items = items[:googleNewsLimit]
	}
	topics = make([]domain.Topic, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		topics = append(topics, domain.Topic{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Source:      g.Name(),
			Timestamp:   published,
			Keywords:    keywords.Extract(item.Title + " " + item.Description),
		})
	}
	metrics.AddTopicsFetched(g.Name(), len(topics))
	return topics, nil
}
