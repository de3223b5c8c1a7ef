package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/infra/metrics"
	"github.com/de6igz/trend-agent/internal/usecase/scheduleposts"
	"github.com/de6igz/trend-agent/internal/usecase/trends"
)

// maxStoredErrors ограничивает журнал ошибок статуса: хранятся только
// последние записи, иначе журнал рос бы бесконечно.
const maxStoredErrors = 50

var defaultPlatforms = []string{"LinkedIn", "Twitter", "Facebook", "Instagram", "TikTok", "YouTube", "Pinterest"}

// ConfigPatch описывает частичное обновление конфигурации агента.
type ConfigPatch struct {
	AutoRun         *bool    `json:"autoRun"`
	IntervalHours   *int     `json:"intervalHours"`
	MaxTopicsPerRun *int     `json:"maxTopicsPerRun"`
	Platforms       []string `json:"platforms"`
}

// Statistics агрегирует сводку всех подсистем агента.
type Statistics struct {
	Agent     domain.AgentStatus                `json:"agent"`
	Scheduler scheduleposts.Statistics          `json:"scheduler"`
	Calendar  map[string][]domain.ScheduledPost `json:"calendar"`
}

// Agent управляет жизненным циклом: собирает тренды, генерирует контент
// и планирует публикации по таймеру или по ручному запуску.
type Agent struct {
	trends    *trends.Service
	generator domain.Generator
	scheduler *scheduleposts.Service
	log       zerolog.Logger

	mu          sync.Mutex
	cfg         domain.AgentConfig
	status      domain.AgentStatus
	cycleActive bool
	stopCh      chan struct{}
	now         func() time.Time
}

// New создаёт агента; нулевые поля конфигурации заменяются значениями
// по умолчанию.
func New(trendsSvc *trends.Service, gen domain.Generator, scheduler *scheduleposts.Service, cfg domain.AgentConfig, logger zerolog.Logger) *Agent {
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 6
	}
	if cfg.MaxTopicsPerRun <= 0 {
		cfg.MaxTopicsPerRun = 5
	}
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = append([]string(nil), defaultPlatforms...)
	}
	return &Agent{
		trends:    trendsSvc,
		generator: gen,
		scheduler: scheduler,
		log:       logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start запускает агента: выполняет один цикл сразу и при включённом
// autoRun взводит повторяющийся таймер. Повторный запуск — no-op.
func (a *Agent) Start() {
	a.mu.Lock()
	if a.status.IsRunning {
		a.mu.Unlock()
		a.log.Info().Msg("agent: уже запущен")
		return
	}
	a.status.IsRunning = true
	interval := time.Duration(a.cfg.IntervalHours) * time.Hour
	autoRun := a.cfg.AutoRun
	var stopCh chan struct{}
	if autoRun {
		stopCh = make(chan struct{})
		a.stopCh = stopCh
		next := a.now().Add(interval)
		a.status.NextRun = &next
	}
	a.mu.Unlock()

	a.log.Info().Msg("agent: запущен")
	a.runCycle()

	if autoRun {
		go a.loop(stopCh, interval)
	}
}

// Stop останавливает таймер. После возврата ни один новый цикл не
// начнётся; уже идущий цикл завершается сам. Повторный вызов — no-op.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	if !a.status.IsRunning {
		return
	}
	a.status.IsRunning = false
	a.status.NextRun = nil
	a.log.Info().Msg("agent: остановлен")
}

// TriggerRun выполняет один цикл вручную, не трогая таймер.
func (a *Agent) TriggerRun() {
	a.runCycle()
}

func (a *Agent) loop(stopCh chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			select {
			case <-stopCh:
				return
			default:
			}
			a.runCycle()
		}
	}
}

// runCycle выполняет один проход: агрегация → генерация → планирование.
// Повторный вход блокируется флагом cycleActive, чтобы параллельные
// запуски не пересекались в общем хранилище публикаций.
func (a *Agent) runCycle() {
	a.mu.Lock()
	if a.cycleActive {
		a.mu.Unlock()
		a.log.Warn().Msg("agent: цикл уже выполняется, запуск пропущен")
		return
	}
	a.cycleActive = true
	cfg := a.configLocked()
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.cycleActive = false
		a.mu.Unlock()
	}()

	start := a.now()
	a.log.Info().Msg("agent: старт цикла")

	topics := a.trends.Aggregate(context.Background(), trends.DefaultMaxResults)

	selected := topics
	if len(selected) > cfg.MaxTopicsPerRun {
		selected = selected[:cfg.MaxTopicsPerRun]
	}

	var items []domain.ContentItem
	for _, topic := range selected {
		generated, err := a.generator.GenerateAll(topic, cfg.Platforms)
		if err != nil {
			a.recordCycleError(fmt.Errorf("генерация контента %q: %w", topic.Title, err))
			return
		}
		items = append(items, generated...)
	}

	posts := a.scheduler.Schedule(items)

	a.mu.Lock()
	a.status.TopicsFound = len(topics)
	a.status.ContentGenerated = len(items)
	a.status.PostsScheduled = len(posts)
	last := a.now()
	a.status.LastRun = &last
	if a.cfg.AutoRun && a.status.IsRunning {
		next := last.Add(time.Duration(a.cfg.IntervalHours) * time.Hour)
		a.status.NextRun = &next
	}
	a.mu.Unlock()

	metrics.ObserveCycle(start)
	a.log.Info().
		Int("topics", len(topics)).
		Int("content", len(items)).
		Int("posts", len(posts)).
		Msg("agent: цикл завершён")
}

func (a *Agent) recordCycleError(err error) {
	a.mu.Lock()
	a.status.Errors = append(a.status.Errors, err.Error())
	if len(a.status.Errors) > maxStoredErrors {
		a.status.Errors = a.status.Errors[len(a.status.Errors)-maxStoredErrors:]
	}
	a.mu.Unlock()
	metrics.IncCycleError()
	a.log.Error().Err(err).Msg("agent: цикл прерван")
}

// UpdateConfig применяет частичное обновление; смена интервала на ходу
// перезапускает таймер так, что живым остаётся ровно один.
func (a *Agent) UpdateConfig(patch ConfigPatch) {
	a.mu.Lock()
	intervalChanged := false
	if patch.AutoRun != nil {
		a.cfg.AutoRun = *patch.AutoRun
	}
	if patch.IntervalHours != nil && *patch.IntervalHours > 0 && *patch.IntervalHours != a.cfg.IntervalHours {
		a.cfg.IntervalHours = *patch.IntervalHours
		intervalChanged = true
	}
	if patch.MaxTopicsPerRun != nil && *patch.MaxTopicsPerRun > 0 {
		a.cfg.MaxTopicsPerRun = *patch.MaxTopicsPerRun
	}
	if patch.Platforms != nil {
		a.cfg.Platforms = append([]string(nil), patch.Platforms...)
	}
	running := a.status.IsRunning
	a.mu.Unlock()

	if intervalChanged && running {
		a.Stop()
		a.Start()
	}
}

// Status возвращает копию снимка состояния.
func (a *Agent) Status() domain.AgentStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *Agent) statusLocked() domain.AgentStatus {
	status := a.status
	status.Errors = append([]string(nil), a.status.Errors...)
	if a.status.LastRun != nil {
		last := *a.status.LastRun
		status.LastRun = &last
	}
	if a.status.NextRun != nil {
		next := *a.status.NextRun
		status.NextRun = &next
	}
	return status
}

// Config возвращает копию конфигурации.
func (a *Agent) Config() domain.AgentConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.configLocked()
}

func (a *Agent) configLocked() domain.AgentConfig {
	cfg := a.cfg
	cfg.Platforms = append([]string(nil), a.cfg.Platforms...)
	return cfg
}

// Stats собирает сводку агента, движка расписания и календарь недели.
func (a *Agent) Stats() Statistics {
	return Statistics{
		Agent:     a.Status(),
		Scheduler: a.scheduler.Stats(),
		Calendar:  a.scheduler.WeekCalendar(a.now()),
	}
}

// ScheduledPosts возвращает все запланированные публикации.
func (a *Agent) ScheduledPosts() []domain.ScheduledPost {
	return a.scheduler.AllPosts()
}

// DuePosts возвращает публикации, готовые к отправке.
func (a *Agent) DuePosts() []domain.ScheduledPost {
	return a.scheduler.DuePosts(a.now())
}

// MarkPosted фиксирует успешную публикацию.
func (a *Agent) MarkPosted(id string) error {
	return a.scheduler.MarkPosted(id)
}

// MarkFailed фиксирует неудачную публикацию.
func (a *Agent) MarkFailed(id string) error {
	return a.scheduler.MarkFailed(id)
}

// LatestTopics выполняет свежую агрегацию вне рабочего цикла.
func (a *Agent) LatestTopics(ctx context.Context) []domain.Topic {
	return a.trends.Aggregate(ctx, trends.DefaultMaxResults)
}
