package domain

import "time"

// PostStatus описывает состояние запланированной публикации.
type PostStatus string

const (
	// StatusPending публикация ждёт своего слота.
	StatusPending PostStatus = "pending"
	// StatusPosted публикация подтверждена внешним исполнителем.
	StatusPosted PostStatus = "posted"
	// StatusFailed публикация завершилась ошибкой у внешнего исполнителя.
	StatusFailed PostStatus = "failed"
)

// Topic описывает трендовую тему, полученную из внешнего источника.
type Topic struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Keywords    []string  `json:"keywords"`
}

// ContentItem содержит контент, сгенерированный по теме для одной платформы.
type ContentItem struct {
	Platform      string     `json:"platform"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Hashtags      []string   `json:"hashtags"`
	ImagePrompt   string     `json:"imagePrompt"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

// ScheduledPost представляет контент, закреплённый за слотом публикации.
type ScheduledPost struct {
	ID            string      `json:"id"`
	Content       ContentItem `json:"content"`
	Platform      string      `json:"platform"`
	ScheduledTime time.Time   `json:"scheduledTime"`
	Status        PostStatus  `json:"status"`
}

// AgentStatus — снимок состояния агента после очередного цикла.
type AgentStatus struct {
	IsRunning        bool       `json:"isRunning"`
	LastRun          *time.Time `json:"lastRun"`
	NextRun          *time.Time `json:"nextRun"`
	TopicsFound      int        `json:"topicsFound"`
	ContentGenerated int        `json:"contentGenerated"`
	PostsScheduled   int        `json:"postsScheduled"`
	Errors           []string   `json:"errors"`
}

// AgentConfig задаёт параметры работы агента.
type AgentConfig struct {
	AutoRun         bool     `json:"autoRun"`
	IntervalHours   int      `json:"intervalHours"`
	MaxTopicsPerRun int      `json:"maxTopicsPerRun"`
	Platforms       []string `json:"platforms"`
}
