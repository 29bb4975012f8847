package cronrunner

import (
	"context"

	"go.uber.org/zap"

	"abccurve/internal/config"
	"abccurve/internal/service"
)

// RegisterJobs wires the maintenance jobs onto the runner: idle-report
// eviction and snapshot retention. Schedules come from config so a
// deployment can slow them down without a rebuild.
func RegisterJobs(r *Runner, cfg config.Config, analysis *service.AnalysisService, snapshots *service.SnapshotService, logger *zap.Logger) error {
	if _, err := r.Add(cfg.Cron.CacheEviction, func(ctx context.Context) {
		n, err := analysis.EvictIdle(ctx, cfg.Cache.MaxIdle)
		if err != nil {
			logger.Error("cache eviction failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("evicted idle reports", zap.Int64("count", n))
		}
	}); err != nil {
		return err
	}
	if _, err := r.Add(cfg.Cron.SnapshotRetention, func(ctx context.Context) {
		n, err := snapshots.Prune(ctx, cfg.Cache.SnapshotKeep)
		if err != nil {
			logger.Error("snapshot retention failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("pruned old snapshots", zap.Int64("count", n))
		}
	}); err != nil {
		return err
	}
	return nil
}
