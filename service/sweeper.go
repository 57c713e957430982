package service

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/metrics"
	"context"
	"errors"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepResult 单次清理结果
type SweepResult struct {
	StoriesDeleted int64 `json:"stories_deleted"`
	AccountsErased int64 `json:"accounts_erased"`
	AccountsFailed int64 `json:"accounts_failed"`
}

var _ ISweeperService = (*SweeperService)(nil)

type ISweeperService interface {
	// RunOnce 删除过期动态、删除停用超期账号，两项并行且可重复执行
	RunOnce(ctx context.Context) (*SweepResult, error)
	// Start 按配置间隔循环执行，ctx 结束时返回
	Start(ctx context.Context) error
}

type SweeperService struct {
	Config   *config.Config
	UserDAO  *dao.Users
	Stories  IStoryService
	Accounts IAccountService
	Clock    clock.Clock
}

func (s *SweeperService) RunOnce(ctx context.Context) (*SweepResult, error) {
	res := &SweepResult{}
	var erased, failed atomic.Int64
	var storyErr, accountErr error

	// 两项互不影响，一项失败不取消另一项
	var eg errgroup.Group
	eg.Go(func() error {
		n, err := s.Stories.DeleteExpired(ctx, s.Config.Sweeper.BatchSize)
		res.StoriesDeleted = n
		metrics.SweeperDeleted.WithLabelValues("story").Add(float64(n))
		storyErr = err
		return nil
	})
	eg.Go(func() error {
		accountErr = s.sweepAccounts(ctx, &erased, &failed)
		return nil
	})
	_ = eg.Wait()
	res.AccountsErased = erased.Load()
	res.AccountsFailed = failed.Load()
	return res, errors.Join(storyErr, accountErr)
}

func (s *SweeperService) sweepAccounts(ctx context.Context, erased, failed *atomic.Int64) error {
	defer func() {
		metrics.SweeperDeleted.WithLabelValues("account").Add(float64(erased.Load()))
	}()
	cutoff := DeactivationCutoff(s.Clock.Now().UTC())
	ids, err := s.UserDAO.ListDeactivatedBefore(ctx, cutoff, s.Config.Sweeper.BatchSize)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// 单个账号失败不影响其他账号，下一轮重试
		if err := s.Accounts.Erase(ctx, id); err != nil {
			failed.Add(1)
			log.L.Error("sweeper erase account", zap.Uint64("user_id", id), zap.Error(err))
			continue
		}
		erased.Add(1)
	}
	return nil
}

func (s *SweeperService) Start(ctx context.Context) error {
	ticker := s.Clock.Ticker(s.Config.Sweeper.Interval)
	defer ticker.Stop()

	log.L.Info("sweeper started", zap.Duration("interval", s.Config.Sweeper.Interval))
	for {
		s.runLogged(ctx)
		select {
		case <-ctx.Done():
			log.L.Info("sweeper stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *SweeperService) runLogged(ctx context.Context) {
	res, err := s.RunOnce(ctx)
	if err != nil {
		log.L.Error("sweeper run failed", zap.Error(err))
	}
	if res != nil {
		log.L.Info("sweeper run",
			zap.Int64("stories_deleted", res.StoriesDeleted),
			zap.Int64("accounts_erased", res.AccountsErased),
			zap.Int64("accounts_failed", res.AccountsFailed),
		)
	}
}
