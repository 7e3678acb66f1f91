package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryScheduler 定时持久化过期报价，结果与读取时的惰性过期一致
type ExpiryScheduler struct {
	cron    *cron.Cron
	svc     *NegotiationService
	logger  *zap.Logger
	timeout time.Duration
}

func NewExpiryScheduler(svc *NegotiationService, schedule string, logger *zap.Logger) (*ExpiryScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExpiryScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		svc:     svc,
		logger:  logger,
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start 启动调度
func (s *ExpiryScheduler) Start() {
	s.cron.Start()
	s.logger.Info("expiry scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop 停止调度并等待正在执行的清理完成
func (s *ExpiryScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep 执行一次清理
func (s *ExpiryScheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.svc.ExpireStaleQuotations(ctx, s.svc.clock())
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Int64("expired", n), zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expiry sweep finished", zap.Int64("expired", n))
	}
}
