package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/resource"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/jobs"
)

const refreshJobType = "refresh"

// RefreshConfig tunes the background refresh worker pool.
type RefreshConfig struct {
	Workers int
}

// RefreshService reloads resource collections in the background. Requests for a
// resource that is already waiting to be reloaded are coalesced.
type RefreshService struct {
	queue   *jobs.Queue
	loaders map[string]ResourceLoader
	order   []string
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRefreshService constructs the service and its queue.
func NewRefreshService(loaders []ResourceLoader, metrics *MetricsService, logger *zap.Logger, cfg RefreshConfig) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RefreshService{
		loaders: make(map[string]ResourceLoader, len(loaders)),
		metrics: metrics,
		logger:  logger,
	}
	for _, l := range loaders {
		s.loaders[l.Name()] = l
		s.order = append(s.order, l.Name())
	}
	s.queue = jobs.NewQueue("refresh", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: len(loaders) * 2,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *RefreshService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop waits for in-flight reloads to finish.
func (s *RefreshService) Stop() { s.queue.Stop() }

// Enqueue schedules a background reload of one resource.
func (s *RefreshService) Enqueue(name string) (bool, error) {
	if _, ok := s.loaders[name]; !ok {
		return false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown resource %q", name))
	}
	return s.queue.Enqueue(jobs.Job{Type: refreshJobType, Key: name})
}

// EnqueueAll schedules a reload of every resource.
func (s *RefreshService) EnqueueAll() {
	for _, name := range s.order {
		if _, err := s.Enqueue(name); err != nil {
			s.logger.Warn("failed to schedule refresh", zap.String("resource", name), zap.Error(err))
		}
	}
}

// Refresh reloads one resource synchronously.
func (s *RefreshService) Refresh(ctx context.Context, name string) (resource.LoadResult, error) {
	loader, ok := s.loaders[name]
	if !ok {
		return resource.LoadResult{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown resource %q", name))
	}
	return s.load(ctx, loader), nil
}

// RunEvery enqueues a reload of every resource on each tick until ctx is done.
func (s *RefreshService) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EnqueueAll()
		}
	}
}

func (s *RefreshService) handle(ctx context.Context, job jobs.Job) error {
	loader, ok := s.loaders[job.Key]
	if !ok {
		return fmt.Errorf("unknown resource %q", job.Key)
	}
	s.load(ctx, loader)
	return nil
}

func (s *RefreshService) load(ctx context.Context, loader ResourceLoader) resource.LoadResult {
	start := time.Now()
	res := loader.Load(ctx)
	s.metrics.ObserveRefresh(loader.Name(), string(res.Source))
	fields := []zap.Field{
		zap.String("resource", loader.Name()),
		zap.String("source", string(res.Source)),
		zap.Int("count", res.Count),
		zap.Duration("duration", time.Since(start)),
	}
	if res.Err != nil {
		s.logger.Warn("refresh served from fallback", append(fields, zap.Error(res.Err))...)
	} else {
		s.logger.Info("refresh completed", fields...)
	}
	return res
}
