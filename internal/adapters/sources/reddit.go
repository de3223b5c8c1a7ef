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

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const redditPostsPerSubreddit = 5

var defaultSubreddits = []string{"artificial", "MachineLearning", "ChatGPT", "LocalLLaMA"}

// Reddit получает горячие посты тематических сабреддитов.
type Reddit struct {
	http       *http.Client
	baseURL    string
	subreddits []string
}

var _ domain.Source = (*Reddit)(nil)

// NewReddit создаёт источник Reddit.
func NewReddit(baseURL string, timeout time.Duration) *Reddit {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reddit{
		http:       &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		subreddits: defaultSubreddits,
	}
}

// Name возвращает имя источника.
func (r *Reddit) Name() string { return "Reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch обходит сабреддиты и нормализует посты в темы.
// Ошибка любого сабреддита отменяет весь результат: выдача источника
// либо полная, либо пустая.
func (r *Reddit) Fetch(ctx context.Context) (topics []domain.Topic, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSourceFetch(r.Name(), start, err) }()

	for _, subreddit := range r.subreddits {
		listing, err := r.fetchSubreddit(ctx, subreddit)
		if err != nil {
			return nil, err
		}
		children := listing.Data.Children
		if len(children) > redditPostsPerSubreddit {
			children = children[:redditPostsPerSubreddit]
		}
		for _, child := range children {
			post := child.Data
			description := post.Selftext
			if description == "" {
				description = post.Title
			}
			topics = append(topics, domain.Topic{
				Title:       post.Title,
				Description: description,
				URL:         r.baseURL + post.Permalink,
				Source:      fmt.Sprintf("Reddit r/%s", subreddit),
				Timestamp:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
				Keywords:    keywords.Extract(post.Title + " " + post.Selftext),
			})
		}
	}
	metrics.AddTopicsFetched(r.Name(), len(topics))
	return topics, nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, subreddit string) (redditListing, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, subreddit, redditPostsPerSubreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return redditListing{}, fmt.Errorf("reddit: build request r/%s: %w", subreddit, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return redditListing{}, fmt.Errorf("reddit: do request r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return redditListing{}, fmt.Errorf("reddit: r/%s unexpected status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return redditListing{}, fmt.Errorf("reddit: decode r/%s: %w", subreddit, err)
	}
	return listing, nil
}
