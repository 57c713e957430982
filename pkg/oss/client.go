package oss

import (
	"Bingo/config"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Bucket 对象存储
type Bucket interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

var _ Bucket = (*AliyunBucket)(nil)

type AliyunBucket struct {
	client *oss.Client
	conf   *config.OssConfig
}

func GetOssClient(conf *config.OssConfig) *oss.Client {
	var provider credentials.CredentialsProvider
	if conf.AccessKeyID != "" {
		provider = credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret)
	} else {
		provider = credentials.NewEnvironmentVariableCredentialsProvider()
	}
	cfg := oss.LoadDefaultConfig().WithCredentialsProvider(provider).
		WithEndpoint(conf.Endpoint).WithRegion(conf.Region)
	return oss.NewClient(cfg)
}

func NewBucket(conf *config.OssConfig) *AliyunBucket {
	return &AliyunBucket{client: GetOssClient(conf), conf: conf}
}

// Put 上传并返回外部访问地址
func (b *AliyunBucket) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := b.client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:      oss.Ptr(b.conf.Bucket),
		Key:         oss.Ptr(key),
		ContentType: oss.Ptr(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return b.URL(key), nil
}

func (b *AliyunBucket) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(b.conf.Bucket),
		Key:    oss.Ptr(key),
	})
	return err
}

func (b *AliyunBucket) URL(key string) string {
	host := b.conf.PublicHost
	if host == "" {
		host = fmt.Sprintf("https://%s.%s", b.conf.Bucket, strings.TrimPrefix(b.conf.Endpoint, "https://"))
	}
	return strings.TrimRight(host, "/") + "/" + key
}
