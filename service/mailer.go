package service

import (
	"Bingo/pkg/log"
	"context"

	"go.uber.org/zap"
)

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer 只写日志，本地和测试环境使用
type LogMailer struct{}

func NewMailer() Mailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.L.Info("mail", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}
