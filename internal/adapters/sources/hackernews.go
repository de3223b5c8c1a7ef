package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/de6igz/trend-agent/internal/adapters/keywords"
	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/infra/metrics"
)

const (
	hackerNewsScanLimit  = 30
	hackerNewsTopicLimit = 10
)

// HackerNews получает топовые истории и оставляет релевантные тематике ИИ.
type HackerNews struct {
	http     *http.Client
	baseURL  string
	relevant func(string) bool
}

var _ domain.Source = (*HackerNews)(nil)

// NewHackerNews создаёт источник Hacker News.
func NewHackerNews(baseURL string, timeout time.Duration) *HackerNews {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HackerNews{
		http:     &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		relevant: keywords.Relevant,
	}
}

// Name возвращает имя источника.
func (h *HackerNews) Name() string { return "Hacker News" }

type hackerNewsItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Time  int64  `json:"time"`
}

// Fetch просматривает первые истории топа и собирает темы про ИИ.
func (h *HackerNews) Fetch(ctx context.Context) (topics []domain.Topic, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSourceFetch(h.Name(), start, err) }()

	var ids []int64
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("hacker news: top stories: %w", err)
	}
	if len(ids) > hackerNewsScanLimit {
		ids = ids[:hackerNewsScanLimit]
	}

	for _, id := range ids {
		var story hackerNewsItem
		if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &story); err != nil {
			return nil, fmt.Errorf("hacker news: item %d: %w", id, err)
		}
		if story.Title == "" || !h.relevant(story.Title) {
			continue
		}
		description := story.Text
		if description == "" {
			description = story.Title
		}
		url := story.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}
		topics = append(topics, domain.Topic{
			Title:       story.Title,
			Description: description,
			URL:         url,
			Source:      h.Name(),
			Timestamp:   time.Unix(story.Time, 0).UTC(),
			Keywords:    keywords.Extract(story.Title),
		})
		if len(topics) >= hackerNewsTopicLimit {
			break
		}
	}
	metrics.AddTopicsFetched(h.Name(), len(topics))
	return topics, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
