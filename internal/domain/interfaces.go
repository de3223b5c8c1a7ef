package domain

import "context"

// Source выгружает трендовые темы одного провайдера.
// Реализация сама ограничивает время сетевого запроса; результат либо
// полный, либо пустой — частичных выдач не бывает.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Topic, error)
}

// Generator строит контент по теме для набора платформ.
type Generator interface {
	GenerateAll(topic Topic, platforms []string) ([]ContentItem, error)
}
