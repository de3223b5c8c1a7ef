package scheduleposts

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/infra/metrics"
)

// ErrPostNotFound возвращается при попытке пометить неизвестную публикацию.
var ErrPostNotFound = errors.New("публикация не найдена")

// optimalHours задаёт предпочтительные часы публикации по платформам
// (24-часовой формат, по возрастанию).
var optimalHours = map[string][]int{
	"LinkedIn":  {8, 12, 17},
	"Twitter":   {9, 12, 15, 18, 21},
	"Facebook":  {9, 13, 19},
	"Instagram": {11, 14, 19},
	"TikTok":    {7, 12, 19, 22},
	"YouTube":   {14, 18, 20},
	"Pinterest": {14, 20, 21},
}

// defaultHours используется для платформ без собственной таблицы.
var defaultHours = []int{9, 14, 19}

// spreadStep разводит публикации одной пачки, чтобы избежать коллизий.
const spreadStep = 15 * time.Minute

// Service хранит запланированные публикации и подбирает слоты.
// Хранилище пополняется между циклами и никогда не очищается; статус
// меняется только по явному подтверждению внешнего исполнителя.
type Service struct {
	mu    sync.Mutex
	posts []domain.ScheduledPost
	now   func() time.Time
	log   zerolog.Logger
}

// NewService создаёт движок расписания.
func NewService(logger zerolog.Logger) *Service {
	return &Service{now: time.Now, log: logger}
}

// Schedule назначает каждому элементу контента будущий слот публикации
// и кладёт его в хранилище со статусом pending.
func (s *Service) Schedule(items []domain.ContentItem) []domain.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now()
	scheduled := make([]domain.ScheduledPost, 0, len(items))
	for offset, item := range items {
		when := nextOptimalTime(item.Platform, base, offset)
		item.ScheduledTime = &when
		scheduled = append(scheduled, domain.ScheduledPost{
			ID:            uuid.NewString(),
			Content:       item,
			Platform:      item.Platform,
			ScheduledTime: when,
			Status:        domain.StatusPending,
		})
	}

	s.posts = append(s.posts, scheduled...)
	metrics.AddScheduledPosts(len(scheduled))
	s.log.Info().Int("count", len(scheduled)).Msg("schedule: публикации запланированы")
	return scheduled
}

// nextOptimalTime ищет ближайший оптимальный час строго после base.
// Слоты одной пачки разводятся на offset*15 минут; при переносе на
// следующий день берётся первый час таблицы без разведения.
func nextOptimalTime(platform string, base time.Time, offset int) time.Time {
	hours, ok := optimalHours[platform]
	if !ok {
		hours = defaultHours
	}

	current := base.Hour()
	for _, hour := range hours {
		if hour > current {
			slot := time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, base.Location())
			return slot.Add(time.Duration(offset) * spreadStep)
		}
	}

	next := base.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), hours[0], 0, 0, 0, base.Location())
}

// DuePosts возвращает pending-публикации, чьё время уже наступило.
// Статус не меняется: исход фиксирует внешний исполнитель.
func (s *Service) DuePosts(now time.Time) []domain.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []domain.ScheduledPost
	for _, post := range s.posts {
		if post.Status == domain.StatusPending && !post.ScheduledTime.After(now) {
			due = append(due, post)
		}
	}
	return due
}

// MarkPosted помечает публикацию опубликованной.
func (s *Service) MarkPosted(id string) error {
	return s.markStatus(id, domain.StatusPosted)
}

// MarkFailed помечает публикацию неудачной.
func (s *Service) MarkFailed(id string) error {
	return s.markStatus(id, domain.StatusFailed)
}

func (s *Service) markStatus(id string, status domain.PostStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Status = status
			metrics.IncPostMarked(string(status))
			return nil
		}
	}
	return fmt.Errorf("публикация %s: %w", id, ErrPostNotFound)
}

// AllPosts возвращает копию всех запланированных публикаций.
func (s *Service) AllPosts() []domain.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ScheduledPost(nil), s.posts...)
}

// PostsByPlatform возвращает публикации одной платформы.
func (s *Service) PostsByPlatform(platform string) []domain.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ScheduledPost
	for _, post := range s.posts {
		if post.Platform == platform {
			out = append(out, post)
		}
	}
	return out
}

// Statistics описывает сводку по публикациям.
type Statistics struct {
	Total       int            `json:"total"`
	ByPlatform  map[string]int `json:"byPlatform"`
	ByStatus    map[string]int `json:"byStatus"`
	SuccessRate string         `json:"successRate"`
}

// Stats считает распределение публикаций и долю успешных.
func (s *Service) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		ByPlatform: make(map[string]int),
		ByStatus: map[string]int{
			string(domain.StatusPending): 0,
			string(domain.StatusPosted):  0,
			string(domain.StatusFailed):  0,
		},
		SuccessRate: "0%",
	}
	for _, post := range s.posts {
		stats.ByPlatform[post.Platform]++
		stats.ByStatus[string(post.Status)]++
	}
	stats.Total = len(s.posts)
	if stats.Total > 0 {
		rate := float64(stats.ByStatus[string(domain.StatusPosted)]) / float64(stats.Total) * 100
		stats.SuccessRate = fmt.Sprintf("%.1f%%", rate)
	}
	return stats
}

// WeekCalendar раскладывает публикации по семи календарным дням,
// начиная с даты now; дни без публикаций присутствуют с пустым списком.
func (s *Service) WeekCalendar(now time.Time) map[string][]domain.ScheduledPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	calendar := make(map[string][]domain.ScheduledPost, 7)
	for i := 0; i < 7; i++ {
		key := now.AddDate(0, 0, i).Format("2006-01-02")
		calendar[key] = []domain.ScheduledPost{}
		for _, post := range s.posts {
			if post.ScheduledTime.Format("2006-01-02") == key {
				calendar[key] = append(calendar[key], post)
			}
		}
	}
	return calendar
}
