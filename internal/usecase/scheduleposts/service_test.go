package scheduleposts

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/domain"
)

func newTestService(now time.Time) *Service {
	svc := NewService(zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func item(platform string) domain.ContentItem {
	return domain.ContentItem{Platform: platform, Title: "t", Body: "b"}
}

func TestScheduleSameDaySlot(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(base)

	posts := svc.Schedule([]domain.ContentItem{item("LinkedIn")})
	want := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if !posts[0].ScheduledTime.Equal(want) {
		t.Fatalf("ожидали слот %v, получили %v", want, posts[0].ScheduledTime)
	}
	if posts[0].Status != domain.StatusPending {
		t.Fatalf("ожидали статус pending, получили %q", posts[0].Status)
	}
	if posts[0].ID == "" {
		t.Fatalf("ожидали сгенерированный идентификатор")
	}
}

func TestScheduleOffsetSpread(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(base)

	posts := svc.Schedule([]domain.ContentItem{
		item("LinkedIn"), item("LinkedIn"), item("LinkedIn"),
	})
	want := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
	if !posts[2].ScheduledTime.Equal(want) {
		t.Fatalf("ожидали разведение 12:30 для offset=2, получили %v", posts[2].ScheduledTime)
	}
}

func TestScheduleRolloverWithoutSpread(t *testing.T) {
	base := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	svc := newTestService(base)

	posts := svc.Schedule([]domain.ContentItem{
		item("LinkedIn"), item("LinkedIn"), item("LinkedIn"),
	})
	want := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	for i, post := range posts {
		// При переносе на следующий день offset не применяется.
		if !post.ScheduledTime.Equal(want) {
			t.Fatalf("offset=%d: ожидали %v, получили %v", i, want, post.ScheduledTime)
		}
	}
}

func TestScheduleUnknownPlatformDefaults(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(base)

	posts := svc.Schedule([]domain.ContentItem{item("Mastodon")})
	want := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	if !posts[0].ScheduledTime.Equal(want) {
		t.Fatalf("ожидали слот по умолчанию 14:00, получили %v", posts[0].ScheduledTime)
	}
}

func TestScheduleAccumulates(t *testing.T) {
	svc := newTestService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	svc.Schedule([]domain.ContentItem{item("Twitter")})
	svc.Schedule([]domain.ContentItem{item("Twitter")})

	if got := len(svc.AllPosts()); got != 2 {
		t.Fatalf("хранилище должно пополняться, получили %d публикаций", got)
	}
}

func TestDuePosts(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(base)
	posts := svc.Schedule([]domain.ContentItem{item("LinkedIn")})

	if got := svc.DuePosts(base); len(got) != 0 {
		t.Fatalf("до наступления слота не должно быть готовых публикаций")
	}

	after := posts[0].ScheduledTime.Add(time.Minute)
	due := svc.DuePosts(after)
	if len(due) != 1 {
		t.Fatalf("ожидали 1 готовую публикацию, получили %d", len(due))
	}
	// DuePosts не меняет статус.
	if svc.AllPosts()[0].Status != domain.StatusPending {
		t.Fatalf("статус должен остаться pending")
	}
}

func TestMarkPostedAndFailed(t *testing.T) {
	svc := newTestService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	posts := svc.Schedule([]domain.ContentItem{item("LinkedIn"), item("Twitter")})

	if err := svc.MarkPosted(posts[0].ID); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if err := svc.MarkFailed(posts[1].ID); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	all := svc.AllPosts()
	if all[0].Status != domain.StatusPosted || all[1].Status != domain.StatusFailed {
		t.Fatalf("статусы не обновились: %q %q", all[0].Status, all[1].Status)
	}

	if err := svc.MarkPosted("missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("ожидали ErrPostNotFound, получили %v", err)
	}
}

func TestStatsSuccessRate(t *testing.T) {
	svc := newTestService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	if got := svc.Stats().SuccessRate; got != "0%" {
		t.Fatalf("для пустого хранилища ожидали 0%%, получили %q", got)
	}

	posts := svc.Schedule([]domain.ContentItem{item("LinkedIn"), item("Twitter"), item("Facebook")})
	if err := svc.MarkPosted(posts[0].ID); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	stats := svc.Stats()
	if stats.SuccessRate != "33.3%" {
		t.Fatalf("ожидали 33.3%%, получили %q", stats.SuccessRate)
	}
	if stats.Total != 3 {
		t.Fatalf("ожидали total=3, получили %d", stats.Total)
	}
	if stats.ByPlatform["LinkedIn"] != 1 {
		t.Fatalf("ожидали 1 публикацию LinkedIn")
	}
	if stats.ByStatus["pending"] != 2 {
		t.Fatalf("ожидали 2 pending, получили %d", stats.ByStatus["pending"])
	}
}

func TestWeekCalendarSevenDays(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(base)
	svc.Schedule([]domain.ContentItem{item("LinkedIn")})

	calendar := svc.WeekCalendar(base)
	if len(calendar) != 7 {
		t.Fatalf("ожидали 7 дней, получили %d", len(calendar))
	}
	today := base.Format("2006-01-02")
	if len(calendar[today]) != 1 {
		t.Fatalf("ожидали публикацию в сегодняшнем дне")
	}
	empty := base.AddDate(0, 0, 6).Format("2006-01-02")
	if got, ok := calendar[empty]; !ok || got == nil || len(got) != 0 {
		t.Fatalf("пустой день должен присутствовать с пустым списком")
	}
}
