package trends

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/domain"
)

// DefaultMaxResults ограничивает общий размер выдачи агрегатора.
const DefaultMaxResults = 30

// Service объединяет темы из нескольких независимых источников.
type Service struct {
	sources []domain.Source
	log     zerolog.Logger
}

// NewService создаёт агрегатор трендов.
func NewService(sources []domain.Source, logger zerolog.Logger) *Service {
	return &Service{sources: sources, log: logger}
}

// Aggregate опрашивает все источники параллельно, сливает результаты,
// сортирует по убыванию времени и обрезает до maxResults. Отказ источника
// превращается в пустой вклад: агрегация не завершается ошибкой никогда.
func (s *Service) Aggregate(ctx context.Context, maxResults int) []domain.Topic {
	results := make([][]domain.Topic, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source domain.Source) {
			defer wg.Done()
			topics, err := source.Fetch(ctx)
			if err != nil {
				s.log.Error().Err(err).Str("source", source.Name()).Msg("trends: источник недоступен")
				return
			}
			results[i] = topics
		}(i, source)
	}
	wg.Wait()

	var merged []domain.Topic
	for _, topics := range results {
		merged = append(merged, topics...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	if maxResults > 0 && len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged
}
