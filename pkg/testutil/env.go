// Package testutil 测试用的完整依赖图：sqlite 内存库 + miniredis + mock 时钟 + 进程内事件总线
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"Bingo/config"
	"Bingo/dao"
	"Bingo/dao/cache"
	"Bingo/handler"
	"Bingo/middleware"
	"Bingo/models"
	"Bingo/pkg/database"
	"Bingo/pkg/jwt"
	"Bingo/pkg/log"
	"Bingo/pkg/mq"
	"Bingo/pkg/oss"
	"Bingo/pkg/server"
	"Bingo/pkg/snowflake"
	"Bingo/pkg/socket"
	"Bingo/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Epoch mock 时钟起点
var Epoch = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type Env struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	MR     *miniredis.Miniredis
	Clock  *clock.Mock
	Bus    *mq.LocalBus
	Bucket *MemBucket
	Mailer *MemMailer
	Hub    *socket.Hub

	AccountDAO      *dao.Account
	UserDAO         *dao.Users
	FollowDAO       *dao.UserFollowDAO
	PostDAO         *dao.PostDAO
	LikeDAO         *dao.PostLikeDAO
	CommentDAO      *dao.Comment
	StoryDAO        *dao.StoryDAO
	NotificationDAO *dao.NotificationDAO
	ImageDAO        *dao.Image
	AuthStorage     *cache.AuthStorage
	Unread          *cache.UnreadStorage

	Auth          *service.AuthService
	Accounts      *service.AccountService
	Profiles      *service.ProfileService
	Follows       *service.FollowService
	Posts         *service.PostService
	Likes         *service.LikeService
	Comments      *service.CommentService
	Feed          *service.FeedService
	Stories       *service.StoryService
	Notifications *service.NotificationService
	Media         *service.MediaService
	Sweeper       *service.SweeperService
	Subscriber    *service.ReauthorSubscriber

	Engine *gin.Engine
}

// NewEnv 每个测试独立的库和 redis
func NewEnv(t *testing.T) *Env {
	t.Helper()
	t.Cleanup(log.Replace(zap.NewNop()))
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只在单个连接内可见
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	clk := clock.NewMock()
	clk.Set(Epoch)

	conf := config.Default()
	conf.Jwt.Secret = "test-secret"
	conf.Auth.BcryptCost = 4

	e := &Env{
		Config: conf,
		DB:     db,
		Redis:  rds,
		MR:     mr,
		Clock:  clk,
		Bus:    mq.NewLocalBus(),
		Bucket: NewMemBucket(),
		Mailer: &MemMailer{},

		AccountDAO:      dao.NewAccount(db),
		UserDAO:         dao.NewUsers(db),
		FollowDAO:       dao.NewUserFollowDAO(db),
		PostDAO:         dao.NewPostDAO(db),
		LikeDAO:         dao.NewPostLikeDAO(db),
		CommentDAO:      dao.NewComment(db),
		StoryDAO:        dao.NewStoryDAO(db),
		NotificationDAO: dao.NewNotificationDAO(db),
		ImageDAO:        dao.NewImage(db),
		AuthStorage:     cache.NewAuthStorage(rds),
		Unread:          cache.NewUnreadStorage(rds),
	}
	e.Hub = socket.NewHub("test:0", cache.NewClientStorage(rds))

	e.Notifications = &service.NotificationService{
		NotificationDAO: e.NotificationDAO,
		UserDAO:         e.UserDAO,
		Unread:          e.Unread,
		Pusher:          e.Hub,
		Clock:           clk,
	}
	e.Posts = &service.PostService{
		PostDAO:    e.PostDAO,
		CommentDAO: e.CommentDAO,
		LikeDAO:    e.LikeDAO,
		UserDAO:    e.UserDAO,
		Clock:      clk,
	}
	e.Stories = &service.StoryService{StoryDAO: e.StoryDAO, UserDAO: e.UserDAO, Clock: clk}
	e.Follows = &service.FollowService{
		FollowDAO:     e.FollowDAO,
		UserDAO:       e.UserDAO,
		Notifications: e.Notifications,
		Clock:         clk,
	}
	e.Media = &service.MediaService{Bucket: e.Bucket, ImageRepo: e.ImageDAO, Clock: clk}
	e.Accounts = &service.AccountService{
		Config:        conf,
		AccountDAO:    e.AccountDAO,
		UserDAO:       e.UserDAO,
		Posts:         e.Posts,
		Stories:       e.Stories,
		Follows:       e.Follows,
		Notifications: e.Notifications,
		Media:         e.Media,
		AuthStorage:   e.AuthStorage,
		Clock:         clk,
	}
	e.Profiles = &service.ProfileService{
		Config:   conf,
		UserDAO:  e.UserDAO,
		Accounts: e.Accounts,
		Broker:   e.Bus,
		Clock:    clk,
	}
	e.Auth = &service.AuthService{
		Config:      conf,
		AccountDAO:  e.AccountDAO,
		AuthStorage: e.AuthStorage,
		Profiles:    e.Profiles,
		Mailer:      e.Mailer,
		Clock:       clk,
	}
	e.Likes = &service.LikeService{
		LikeDAO:       e.LikeDAO,
		PostDAO:       e.PostDAO,
		Notifications: e.Notifications,
		Clock:         clk,
	}
	e.Comments = &service.CommentService{
		CommentDAO:    e.CommentDAO,
		PostDAO:       e.PostDAO,
		UserDAO:       e.UserDAO,
		Notifications: e.Notifications,
		Clock:         clk,
	}
	e.Feed = &service.FeedService{
		Config:  conf,
		Follows: e.Follows,
		PostDAO: e.PostDAO,
		UserDAO: e.UserDAO,
		LikeDAO: e.LikeDAO,
	}
	e.Sweeper = &service.SweeperService{
		Config:   conf,
		UserDAO:  e.UserDAO,
		Stories:  e.Stories,
		Accounts: e.Accounts,
		Clock:    clk,
	}
	e.Subscriber = &service.ReauthorSubscriber{UserDAO: e.UserDAO, Posts: e.Posts, Stories: e.Stories}
	require.NoError(t, e.Subscriber.Register(e.Bus))
	t.Cleanup(func() { _ = e.Bus.Shutdown() })

	authorize := middleware.NewAuthorize(conf, e.AuthStorage, clk)
	e.Engine = server.NewGinEngine(&server.Handlers{
		Auth: &handler.Auth{AuthService: e.Auth},
		User: &handler.User{
			Authorize:      authorize,
			ProfileService: e.Profiles,
			AccountService: e.Accounts,
			PostService:    e.Posts,
		},
		Follow: &handler.Follow{Authorize: authorize, FollowService: e.Follows},
		Post: &handler.Post{
			Authorize:      authorize,
			PostService:    e.Posts,
			LikeService:    e.Likes,
			CommentService: e.Comments,
		},
		Feed:         &handler.Feed{Config: conf, Authorize: authorize, FeedService: e.Feed},
		Story:        &handler.Story{Authorize: authorize, StoryService: e.Stories},
		Notification: &handler.Notification{Authorize: authorize, NotificationService: e.Notifications, Hub: e.Hub},
		Media:        &handler.Media{Authorize: authorize, MediaService: e.Media},
	})
	return e
}

// NewUser 直接写入已验证账号和资料
func (e *Env) NewUser(t *testing.T, username string) *models.Users {
	t.Helper()
	now := e.Clock.Now().UTC()
	id := snowflake.GenUserID()
	email := username + "@example.com"
	account := &models.Account{ID: id, Email: email, PasswordHash: "-", EmailVerified: true, CreatedAt: now, UpdatedAt: now}
	profile := &models.Users{ID: id, Email: email, Username: username, FullName: username, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, e.AccountDAO.CreateWithProfile(context.Background(), account, profile))
	return profile
}

// Reload 重新读取资料，已删除时返回 nil
func (e *Env) Reload(t *testing.T, id uint64) *models.Users {
	t.Helper()
	u, err := e.UserDAO.FindById(context.Background(), id)
	if dao.IsNotFound(err) {
		return nil
	}
	require.NoError(t, err)
	return u
}

// Token 签发当前时钟下的 access token
func (e *Env) Token(t *testing.T, uid uint64) string {
	t.Helper()
	token, err := jwt.GenerateToken([]byte(e.Config.Jwt.Secret), uid, jwt.TokenTypeAccess, e.Clock.Now(), e.Config.Jwt.AccessTTL)
	require.NoError(t, err)
	return token
}

// Do 发起 HTTP 请求，token 为空时不带 Authorization
func (e *Env) Do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, req)
	return w
}

// Advance 推进时钟并等待事件处理完毕
func (e *Env) Advance(d time.Duration) {
	e.Clock.Add(d)
	e.Bus.Flush()
}

// MemBucket 内存对象存储
type MemBucket struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

var _ oss.Bucket = (*MemBucket)(nil)

func NewMemBucket() *MemBucket {
	return &MemBucket{Objects: make(map[string][]byte)}
}

func (b *MemBucket) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (b *MemBucket) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Objects, key)
	return nil
}

func (b *MemBucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Objects)
}

// MemMailer 记录发出的邮件
type MemMailer struct {
	mu   sync.Mutex
	Sent []Mail
}

type Mail struct {
	To, Subject, Body string
}

func (m *MemMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// LastCode 最近一封发给 to 的邮件中的 6 位验证码
func (m *MemMailer) LastCode(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].To == to {
			return codePattern.FindString(m.Sent[i].Body)
		}
	}
	return ""
}

// LastBody 最近一封发给 to 的邮件正文
func (m *MemMailer) LastBody(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].To == to {
			return m.Sent[i].Body
		}
	}
	return ""
}

// CountQueries 统计 fn 执行期间发出的查询数
func CountQueries(t *testing.T, db *gorm.DB, fn func()) int {
	t.Helper()
	var mu sync.Mutex
	n := 0
	name := fmt.Sprintf("testutil:count:%p", &n)
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register(name, func(*gorm.DB) {
		mu.Lock()
		n++
		mu.Unlock()
	}))
	defer func() { _ = db.Callback().Query().Remove(name) }()
	fn()
	mu.Lock()
	defer mu.Unlock()
	return n
}

// FailQueries 查询 table 且绑定参数含 id 时返回 err，测试结束后移除
func FailQueries(t *testing.T, db *gorm.DB, table string, id uint64, err error) {
	t.Helper()
	name := fmt.Sprintf("testutil:fail:query:%s:%d", table, id)
	require.NoError(t, db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		for _, v := range tx.Statement.Vars {
			if v == any(id) {
				_ = tx.AddError(err)
				return
			}
		}
	}))
	t.Cleanup(func() { _ = db.Callback().Query().Remove(name) })
}

// FailCreates 写入 table 时返回 err，测试结束后移除
func FailCreates(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()
	name := "testutil:fail:create:" + table
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}))
	t.Cleanup(func() { _ = db.Callback().Create().Remove(name) })
}

// Ptr 取地址
func Ptr[T any](v T) *T {
	return &v
}
