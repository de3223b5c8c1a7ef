package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	Agent struct {
		AutoStart       bool     `envconfig:"AGENT_AUTO_START" default:"false"`
		AutoRun         bool     `envconfig:"AGENT_AUTO_RUN" default:"true"`
		IntervalHours   int      `envconfig:"AGENT_INTERVAL_HOURS" default:"6"`
		MaxTopicsPerRun int      `envconfig:"AGENT_MAX_TOPICS" default:"5"`
		Platforms       []string `envconfig:"AGENT_PLATFORMS" default:"LinkedIn,Twitter,Facebook,Instagram,TikTok,YouTube,Pinterest"`
	} `envconfig:""`

	Sources struct {
		FetchTimeout  time.Duration `envconfig:"SOURCE_FETCH_TIMEOUT" default:"10s"`
		GoogleNewsURL string        `envconfig:"GOOGLE_NEWS_FEED_URL" default:"https://news.google.com/rss/search?q=artificial+intelligence+OR+machine+learning+OR+AI+OR+ChatGPT+OR+LLM&hl=en-US&gl=US&ceid=US:en"`
		RedditBase    string        `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
		HackerNews    string        `envconfig:"HACKER_NEWS_BASE_URL" default:"https://hacker-news.firebaseio.com/v0"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
