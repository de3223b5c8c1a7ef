package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/usecase/scheduleposts"
	"github.com/de6igz/trend-agent/internal/usecase/trends"
)

type stubSource struct {
	topics []domain.Topic
}

func (s *stubSource) Name() string { return "stub" }
func (s *stubSource) Fetch(context.Context) ([]domain.Topic, error) {
	return s.topics, nil
}

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) GenerateAll(topic domain.Topic, platforms []string) ([]domain.ContentItem, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	items := make([]domain.ContentItem, 0, len(platforms))
	for _, platform := range platforms {
		items = append(items, domain.ContentItem{Platform: platform, Title: topic.Title})
	}
	return items, nil
}

func newTestAgent(t *testing.T, gen domain.Generator, cfg domain.AgentConfig) *Agent {
	t.Helper()
	topics := []domain.Topic{
		{Title: "first", Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		{Title: "second", Timestamp: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)},
	}
	trendsSvc := trends.NewService([]domain.Source{&stubSource{topics: topics}}, zerolog.Nop())
	scheduler := scheduleposts.NewService(zerolog.Nop())
	return New(trendsSvc, gen, scheduler, cfg, zerolog.Nop())
}

func TestStartRunsCycleImmediately(t *testing.T) {
	gen := &stubGenerator{}
	a := newTestAgent(t, gen, domain.AgentConfig{Platforms: []string{"LinkedIn", "Twitter"}})

	a.Start()
	defer a.Stop()

	status := a.Status()
	if !status.IsRunning {
		t.Fatalf("ожидали isRunning после старта")
	}
	if status.TopicsFound != 2 {
		t.Fatalf("ожидали 2 темы, получили %d", status.TopicsFound)
	}
	if status.ContentGenerated != 4 {
		t.Fatalf("ожидали 4 элемента контента, получили %d", status.ContentGenerated)
	}
	if status.PostsScheduled != 4 {
		t.Fatalf("ожидали 4 публикации, получили %d", status.PostsScheduled)
	}
	if status.LastRun == nil {
		t.Fatalf("ожидали заполненный lastRun")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	gen := &stubGenerator{}
	a := newTestAgent(t, gen, domain.AgentConfig{AutoRun: true, Platforms: []string{"LinkedIn"}})

	a.Start()
	firstStop := a.stopCh
	a.Start()
	defer a.Stop()

	if !a.Status().IsRunning {
		t.Fatalf("ожидали isRunning после повторного старта")
	}
	if a.stopCh != firstStop {
		t.Fatalf("повторный старт не должен создавать второй таймер")
	}
	if gen.calls != 2 {
		t.Fatalf("повторный старт не должен запускать второй цикл, вызовов генератора: %d", gen.calls)
	}
}

func TestStopClearsTimerAndNextRun(t *testing.T) {
	a := newTestAgent(t, &stubGenerator{}, domain.AgentConfig{AutoRun: true, Platforms: []string{"LinkedIn"}})

	a.Start()
	if a.Status().NextRun == nil {
		t.Fatalf("ожидали заполненный nextRun при autoRun")
	}

	a.Stop()
	a.Stop() // повторная остановка — no-op

	status := a.Status()
	if status.IsRunning {
		t.Fatalf("ожидали isRunning=false после остановки")
	}
	if status.NextRun != nil {
		t.Fatalf("ожидали пустой nextRun после остановки")
	}
	if a.stopCh != nil {
		t.Fatalf("ожидали освобождённый таймер")
	}
}

func TestCycleFailureKeepsAgentAlive(t *testing.T) {
	gen := &stubGenerator{}
	a := newTestAgent(t, gen, domain.AgentConfig{Platforms: []string{"LinkedIn"}})

	a.Start()
	defer a.Stop()
	before := len(a.ScheduledPosts())

	gen.err = errors.New("шаблон сломан")
	a.TriggerRun()

	status := a.Status()
	if !status.IsRunning {
		t.Fatalf("ошибка цикла не должна останавливать агента")
	}
	if len(status.Errors) != 1 {
		t.Fatalf("ожидали 1 запись об ошибке, получили %d", len(status.Errors))
	}
	if got := len(a.ScheduledPosts()); got != before {
		t.Fatalf("прерванный цикл не должен менять хранилище: было %d, стало %d", before, got)
	}
}

func TestCycleGuardSkipsOverlap(t *testing.T) {
	a := newTestAgent(t, &stubGenerator{}, domain.AgentConfig{Platforms: []string{"LinkedIn"}})

	a.mu.Lock()
	a.cycleActive = true
	a.mu.Unlock()

	a.TriggerRun()

	if got := len(a.ScheduledPosts()); got != 0 {
		t.Fatalf("перекрывающийся цикл должен быть пропущен, получили %d публикаций", got)
	}
}

func TestErrorLogCapped(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	a := newTestAgent(t, gen, domain.AgentConfig{Platforms: []string{"LinkedIn"}})

	for i := 0; i < maxStoredErrors+10; i++ {
		a.TriggerRun()
	}

	if got := len(a.Status().Errors); got != maxStoredErrors {
		t.Fatalf("ожидали усечение журнала до %d записей, получили %d", maxStoredErrors, got)
	}
}

func TestUpdateConfigMergesFields(t *testing.T) {
	a := newTestAgent(t, &stubGenerator{}, domain.AgentConfig{})

	maxTopics := 3
	a.UpdateConfig(ConfigPatch{MaxTopicsPerRun: &maxTopics, Platforms: []string{"Twitter"}})

	cfg := a.Config()
	if cfg.MaxTopicsPerRun != 3 {
		t.Fatalf("ожидали maxTopicsPerRun=3, получили %d", cfg.MaxTopicsPerRun)
	}
	if len(cfg.Platforms) != 1 || cfg.Platforms[0] != "Twitter" {
		t.Fatalf("ожидали платформу Twitter, получили %v", cfg.Platforms)
	}
	// Нетронутые поля сохраняются.
	if cfg.IntervalHours != 6 {
		t.Fatalf("ожидали интервал по умолчанию 6, получили %d", cfg.IntervalHours)
	}
}

func TestUpdateConfigIntervalRestartsTimer(t *testing.T) {
	a := newTestAgent(t, &stubGenerator{}, domain.AgentConfig{AutoRun: true, Platforms: []string{"LinkedIn"}})

	a.Start()
	defer a.Stop()
	oldStop := a.stopCh

	interval := 2
	a.UpdateConfig(ConfigPatch{IntervalHours: &interval})

	if !a.Status().IsRunning {
		t.Fatalf("агент должен остаться запущенным после смены интервала")
	}
	if a.stopCh == nil || a.stopCh == oldStop {
		t.Fatalf("ожидали перезапуск таймера с новым интервалом")
	}
	if a.Config().IntervalHours != 2 {
		t.Fatalf("ожидали интервал 2, получили %d", a.Config().IntervalHours)
	}
}

func TestStatusReturnsDefensiveCopy(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	a := newTestAgent(t, gen, domain.AgentConfig{Platforms: []string{"LinkedIn"}})
	a.TriggerRun()

	status := a.Status()
	status.Errors[0] = "подменили"

	if a.Status().Errors[0] == "подменили" {
		t.Fatalf("снимок статуса не должен давать доступ к внутреннему состоянию")
	}
}

func TestLatestTopicsIndependentOfCycle(t *testing.T) {
	a := newTestAgent(t, &stubGenerator{}, domain.AgentConfig{Platforms: []string{"LinkedIn"}})

	topics := a.LatestTopics(context.Background())
	if len(topics) != 2 {
		t.Fatalf("ожидали 2 темы, получили %d", len(topics))
	}
	if a.Status().TopicsFound != 0 {
		t.Fatalf("свежая агрегация не должна менять статус цикла")
	}
}
