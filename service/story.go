package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/snowflake"
	"Bingo/types"
	"context"
	"slices"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var _ IStoryService = (*StoryService)(nil)

type IStoryService interface {
	// CreateStory 图片和视频二选一
	CreateStory(ctx context.Context, authorID uint64, imageURL, videoURL *string) (*models.Story, error)
	// ActiveStories 未过期动态按作者分组，最新的分组在前
	ActiveStories(ctx context.Context, viewerID uint64) ([]*types.StoryGroup, error)
	// ViewStory 重复浏览幂等
	ViewStory(ctx context.Context, viewerID, storyID uint64) error
	DeleteExpired(ctx context.Context, batch int) (int64, error)
	Reauthor(ctx context.Context, userID uint64, name string, avatar *string) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

type StoryService struct {
	StoryDAO *dao.StoryDAO
	UserDAO  *dao.Users
	Clock    clock.Clock
}

func (s *StoryService) CreateStory(ctx context.Context, authorID uint64, imageURL, videoURL *string) (*models.Story, error) {
	imageURL, videoURL = trimURL(imageURL), trimURL(videoURL)
	if (imageURL == nil) == (videoURL == nil) {
		return nil, bizerr.InvalidArgument("图片和视频需且仅需提供一个")
	}
	author, err := s.UserDAO.FindById(ctx, authorID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	story := &models.Story{
		ID:                 snowflake.GenID(),
		AuthorID:           authorID,
		AuthorName:         displayName(author),
		AuthorProfileImage: author.ProfileImageURL,
		ImageURL:           imageURL,
		VideoURL:           videoURL,
		CreatedAt:          s.Clock.Now().UTC(),
	}
	if err := s.StoryDAO.Create(ctx, story); err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return story, nil
}

func (s *StoryService) ActiveStories(ctx context.Context, viewerID uint64) ([]*types.StoryGroup, error) {
	now := s.Clock.Now().UTC()
	stories, err := s.StoryDAO.ListActive(ctx, now.Add(-models.StoryTTL))
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}

	ids := make([]uint64, 0, len(stories))
	authorIDs := make([]uint64, 0)
	for _, st := range stories {
		// 读时再判断一次，防止边界上的时钟误差
		if st.Expired(now) {
			continue
		}
		ids = append(ids, st.ID)
		if !slices.Contains(authorIDs, st.AuthorID) {
			authorIDs = append(authorIDs, st.AuthorID)
		}
	}
	viewers, err := s.StoryDAO.ListViewers(ctx, ids)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	authors, err := s.UserDAO.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	visible := make(map[uint64]bool, len(authors))
	for _, a := range authors {
		visible[a.ID] = a.Visible()
	}

	// stories 已按时间倒序，分组顺序即作者最新动态的顺序
	groups := make([]*types.StoryGroup, 0)
	byAuthor := make(map[uint64]*types.StoryGroup)
	for _, st := range stories {
		if st.Expired(now) || !visible[st.AuthorID] {
			continue
		}
		g, ok := byAuthor[st.AuthorID]
		if !ok {
			g = &types.StoryGroup{
				AuthorID:           st.AuthorID,
				AuthorName:         st.AuthorName,
				AuthorProfileImage: st.AuthorProfileImage,
			}
			byAuthor[st.AuthorID] = g
			groups = append(groups, g)
		}
		v := &types.StoryView{Story: st, ViewerIDs: viewers[st.ID], ExpiresAt: st.CreatedAt.Add(models.StoryTTL)}
		if v.ViewerIDs == nil {
			v.ViewerIDs = []uint64{}
		}
		if st.AuthorID != viewerID && !slices.Contains(v.ViewerIDs, viewerID) {
			g.HasUnviewed = true
		}
		g.Stories = append(g.Stories, v)
	}
	return groups, nil
}

func (s *StoryService) ViewStory(ctx context.Context, viewerID, storyID uint64) error {
	st, err := s.StoryDAO.FindById(ctx, storyID)
	if err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("动态不存在")
		}
		return bizerr.Unavailable(err)
	}
	now := s.Clock.Now().UTC()
	if st.Expired(now) {
		return bizerr.NotFound("动态已过期")
	}
	if _, err := s.StoryDAO.AddView(ctx, storyID, viewerID, now); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

// DeleteExpired created_at 早于等于 now-24h 的动态
func (s *StoryService) DeleteExpired(ctx context.Context, batch int) (int64, error) {
	cutoff := s.Clock.Now().UTC().Add(-models.StoryTTL)
	n, err := s.StoryDAO.DeleteExpired(ctx, cutoff, batch)
	if err != nil {
		return n, bizerr.Unavailable(err)
	}
	return n, nil
}

func (s *StoryService) Reauthor(ctx context.Context, userID uint64, name string, avatar *string) error {
	n, err := s.StoryDAO.UpdateAuthor(ctx, userID, name, avatar)
	if err != nil {
		log.L.Error("reauthor stories failed", zap.Uint64("user_id", userID), zap.Error(err))
		return err
	}
	log.L.Info("reauthor stories", zap.Uint64("user_id", userID), zap.Int64("rows", n))
	return nil
}

func (s *StoryService) DeleteAllForUser(ctx context.Context, userID uint64) error {
	if err := s.StoryDAO.DeleteAllForUser(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

func trimURL(u *string) *string {
	if u == nil || strings.TrimSpace(*u) == "" {
		return nil
	}
	v := strings.TrimSpace(*u)
	return &v
}
