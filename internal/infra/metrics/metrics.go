package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SourceFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "source_fetch_duration_seconds",
		Help:    "Длительность запроса к источнику трендов",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "status"})

	SourceFetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "source_fetch_errors_total",
		Help: "Ошибки при опросе источников трендов",
	}, []string{"source"})

	SourceTopicsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "source_topics_fetched_total",
		Help: "Количество тем, полученных из источника",
	}, []string{"source"})

	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_cycle_duration_seconds",
		Help:    "Длительность полного цикла агента",
		Buckets: prometheus.DefBuckets,
	})

	CycleErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_cycle_errors_total",
		Help: "Количество прерванных циклов агента",
	})

	ScheduledPostsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduled_posts_total",
		Help: "Количество запланированных публикаций",
	})

	PostsMarked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_marked_total",
		Help: "Количество публикаций, помеченных внешним исполнителем",
	}, []string{"status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SourceFetchDuration,
		SourceFetchErrors,
		SourceTopicsFetched,
		CycleDuration,
		CycleErrors,
		ScheduledPostsTotal,
		PostsMarked,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// ObserveSourceFetch записывает длительность и исход опроса источника.
func ObserveSourceFetch(source string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		SourceFetchErrors.WithLabelValues(source).Inc()
	}
	SourceFetchDuration.WithLabelValues(source, status).Observe(time.Since(start).Seconds())
}

// AddTopicsFetched увеличивает счётчик полученных тем источника.
func AddTopicsFetched(source string, n int) {
	if n > 0 {
		SourceTopicsFetched.WithLabelValues(source).Add(float64(n))
	}
}

// ObserveCycle записывает длительность цикла агента.
func ObserveCycle(start time.Time) {
	CycleDuration.Observe(time.Since(start).Seconds())
}

// IncCycleError увеличивает счётчик прерванных циклов.
func IncCycleError() {
	CycleErrors.Inc()
}

// AddScheduledPosts увеличивает счётчик запланированных публикаций.
func AddScheduledPosts(n int) {
	if n > 0 {
		ScheduledPostsTotal.Add(float64(n))
	}
}

// IncPostMarked увеличивает счётчик помеченных публикаций.
func IncPostMarked(status string) {
	PostsMarked.WithLabelValues(status).Inc()
}
