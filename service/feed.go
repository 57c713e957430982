package service

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/metrics"
	"Bingo/types"
	"context"
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	feedHome     = "home"
	feedTrending = "trending"

	dropHidden = "hidden"
	dropError  = "error"
)

var _ IFeedService = (*FeedService)(nil)

type IFeedService interface {
	// HomeFeed 关注的人和自己的帖子，按时间倒序
	HomeFeed(ctx context.Context, userID uint64, limit int) ([]*types.PostView, error)
	// TrendingFeed 点赞数倒序，viewerID 为 0 时不标注点赞状态
	TrendingFeed(ctx context.Context, viewerID uint64, limit int) ([]*types.PostView, error)
}

// FeedService 只读，不修改任何数据
// 先取一页候选帖子，再逐条并发校验作者可见性和点赞状态，单条失败只丢弃该条
type FeedService struct {
	Config  *config.Config
	Follows IFollowService
	PostDAO *dao.PostDAO
	UserDAO *dao.Users
	LikeDAO *dao.PostLikeDAO
}

func (s *FeedService) HomeFeed(ctx context.Context, userID uint64, limit int) ([]*types.PostView, error) {
	limit = s.Config.Feed.Clamp(limit, s.Config.Feed.HomeLimit)
	ctx, cancel := context.WithTimeout(ctx, s.Config.Feed.Timeout)
	defer cancel()

	following, err := s.Follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors := make([]uint64, 0, len(following)+1)
	authors = append(authors, following...)
	authors = append(authors, userID)

	posts, err := s.PostDAO.ListByAuthors(ctx, authors, limit)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return s.assemble(ctx, feedHome, userID, posts)
}

func (s *FeedService) TrendingFeed(ctx context.Context, viewerID uint64, limit int) ([]*types.PostView, error) {
	limit = s.Config.Feed.Clamp(limit, s.Config.Feed.TrendingLimit)
	ctx, cancel := context.WithTimeout(ctx, s.Config.Feed.Timeout)
	defer cancel()

	posts, err := s.PostDAO.ListTrending(ctx, limit)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return s.assemble(ctx, feedTrending, viewerID, posts)
}

type feedItem struct {
	view   *types.PostView
	reason string
}

func (s *FeedService) assemble(ctx context.Context, feed string, viewerID uint64, posts []*models.Post) ([]*types.PostView, error) {
	memo := newAuthorMemo(s.UserDAO)
	mapper := iter.Mapper[*models.Post, feedItem]{MaxGoroutines: s.Config.Feed.FanOut}
	items := mapper.Map(posts, func(p **models.Post) feedItem {
		return s.resolve(ctx, viewerID, *p, memo)
	})

	// 超时或取消时整体失败，不返回残缺结果
	if err := ctx.Err(); err != nil {
		return nil, bizerr.Unavailable(err)
	}

	out := make([]*types.PostView, 0, len(items))
	for _, it := range items {
		if it.view == nil {
			metrics.FeedDropped.WithLabelValues(feed, it.reason).Inc()
			continue
		}
		out = append(out, it.view)
	}
	return out, nil
}

func (s *FeedService) resolve(ctx context.Context, viewerID uint64, post *models.Post, memo *authorMemo) feedItem {
	visible, err := memo.visible(ctx, post.AuthorID)
	if err != nil {
		log.L.Warn("feed author lookup failed", zap.Uint64("post_id", post.ID), zap.Error(err))
		return feedItem{reason: dropError}
	}
	if !visible {
		return feedItem{reason: dropHidden}
	}

	view := &types.PostView{Post: post}
	if viewerID == 0 {
		return feedItem{view: view}
	}
	liked, err := s.LikeDAO.IsLiked(ctx, post.ID, viewerID)
	if err != nil {
		log.L.Warn("feed like lookup failed", zap.Uint64("post_id", post.ID), zap.Error(err))
		return feedItem{reason: dropError}
	}
	view.IsLikedByUser = liked
	return feedItem{view: view}
}

// authorMemo 单次请求内缓存作者可见性，同一作者并发查询合并
type authorMemo struct {
	users *dao.Users
	group singleflight.Group
	cache cmap.ConcurrentMap[string, bool]
}

func newAuthorMemo(users *dao.Users) *authorMemo {
	return &authorMemo{users: users, cache: cmap.New[bool]()}
}

// visible 作者不存在或已停用返回 false
func (m *authorMemo) visible(ctx context.Context, authorID uint64) (bool, error) {
	key := strconv.FormatUint(authorID, 10)
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		u, err := m.users.FindById(ctx, authorID)
		if dao.IsNotFound(err) {
			m.cache.Set(key, false)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		m.cache.Set(key, u.Visible())
		return u.Visible(), nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
