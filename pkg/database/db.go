package database

import (
	"Bingo/config"
	"Bingo/models"
	"Bingo/pkg/log"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	gormConf := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if !conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Warn)
	}
	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), gormConf)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatal("failed to get sql.DB", zap.Error(err))
	}
	if conf.MySQL.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpen)
	}
	if conf.MySQL.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	log.L.Info("connect database success")
	return db
}

// Migrate 建表
// mysql 下用户名改为二进制排序规则，唯一约束区分大小写
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return err
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	return db.WithContext(ctx).Exec(
		"ALTER TABLE users MODIFY username VARCHAR(64) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	).Error
}
