package dao

import (
	"Bingo/models"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// IsUsernameTaken 用户名是否被 exceptID 以外的用户占用，exceptID 为 0 时任何记录都算占用
func (u *Users) IsUsernameTaken(ctx context.Context, username string, exceptID uint64) (bool, error) {
	if exceptID == 0 {
		return u.Repo.IsExist(ctx, "username = ?", username)
	}
	return u.Repo.IsExist(ctx, "username = ? AND id <> ?", username, exceptID)
}

// SearchByPrefix 用户名前缀搜索，只返回未停用用户
func (u *Users) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.Users, error) {
	var users []*models.Users
	err := u.Db.WithContext(ctx).
		Where("username LIKE ? ESCAPE '!' AND is_deactivated = ?", escapeLike(prefix)+"%", false).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// FindByIDs 批量查询，缺失的 id 不在结果中
func (u *Users) FindByIDs(ctx context.Context, ids []uint64) ([]*models.Users, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*models.Users
	err := u.Db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (u *Users) Update(ctx context.Context, userID uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := u.Db.WithContext(ctx).
		Model(&models.Users{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("dao.Users.Update error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetDeactivated 停用或恢复，恢复时清空 deactivated_at，updated_at 取 now
func (u *Users) SetDeactivated(ctx context.Context, userID uint64, deactivated bool, now time.Time) error {
	updates := map[string]any{"is_deactivated": deactivated, "deactivated_at": nil, "updated_at": now}
	if deactivated {
		updates["deactivated_at"] = now
	}
	return u.Update(ctx, userID, updates)
}

// ListDeactivatedBefore 停用时间早于等于 cutoff 的用户 id
func (u *Users) ListDeactivatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	err := u.Db.WithContext(ctx).
		Model(&models.Users{}).
		Where("is_deactivated = ? AND deactivated_at IS NOT NULL AND deactivated_at <= ?", true, cutoff).
		Order("deactivated_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteByID 删除资料，返回是否存在
func (u *Users) DeleteByID(ctx context.Context, userID uint64) (bool, error) {
	n, err := u.Repo.Delete(ctx, "id = ?", userID)
	return n > 0, err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '!' {
			out = append(out, '!')
		}
		out = append(out, r)
	}
	return string(out)
}
