package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/oss"
	"Bingo/pkg/snowflake"
	"Bingo/types"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const maxImageSize int64 = 10 << 20 // 10MB

var _ IMediaService = (*MediaService)(nil)

type IMediaService interface {
	UploadImage(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadImageResp, error)
	// DeleteAllForUser 对象存储删除失败只记日志
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

type MediaService struct {
	Bucket    oss.Bucket
	ImageRepo *dao.Image
	Clock     clock.Clock
}

func (s *MediaService) UploadImage(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadImageResp, error) {
	if header == nil {
		return nil, bizerr.InvalidArgument("缺少图片")
	}
	// header.Size 只做初筛，上传时再限制读取长度
	if header.Size <= 0 || header.Size > maxImageSize {
		return nil, bizerr.InvalidArgument("图片大小需在 10MB 以内")
	}

	f, err := header.Open()
	if err != nil {
		return nil, bizerr.InvalidArgument("读取图片失败")
	}
	defer f.Close()

	// 嗅探类型和读取尺寸后需回到开头再上传
	seeker, ok := f.(io.ReadSeeker)
	if !ok {
		return nil, bizerr.InvalidArgument("读取图片失败")
	}

	// 按文件头判断类型，不信任扩展名
	head := make([]byte, 512)
	n, _ := seeker.Read(head)
	contentType := http.DetectContentType(head[:n])
	allowedMime := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	if !allowedMime[contentType] {
		return nil, bizerr.InvalidArgument(fmt.Sprintf("不支持的图片类型: %s", contentType))
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, bizerr.InvalidArgument("读取图片失败")
	}

	// 只解码头部取尺寸
	cfg, format, err := image.DecodeConfig(seeker)
	if err != nil {
		return nil, bizerr.InvalidArgument("图片已损坏")
	}
	format = strings.ToLower(format)
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, bizerr.InvalidArgument("读取图片失败")
	}

	imageID := snowflake.GenID()
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	now := s.Clock.Now().UTC()
	objectKey := fmt.Sprintf("media/%d/%s/%d%s", userID, now.Format("2006/01/02"), imageID, ext)

	url, err := s.Bucket.Put(ctx, objectKey, contentType, io.LimitReader(seeker, maxImageSize+1))
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}

	img := &models.Image{
		ID:          imageID,
		UserID:      userID,
		OssKey:      objectKey,
		ContentType: contentType,
		Size:        header.Size,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Status:      models.ImageStatusUploaded,
		CreatedAt:   now,
	}
	if err := s.ImageRepo.CreateImage(ctx, img); err != nil {
		if derr := s.Bucket.Delete(ctx, objectKey); derr != nil {
			log.L.Warn("rollback uploaded object", zap.String("key", objectKey), zap.Error(derr))
		}
		return nil, bizerr.Unavailable(err)
	}

	return &types.UploadImageResp{
		ImageID:     imageID,
		URL:         url,
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func (s *MediaService) DeleteAllForUser(ctx context.Context, userID uint64) error {
	keys, err := s.ImageRepo.ListKeysByUser(ctx, userID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	for _, key := range keys {
		if err := s.Bucket.Delete(ctx, key); err != nil {
			log.L.Warn("delete object", zap.String("key", key), zap.Error(err))
		}
	}
	if _, err := s.ImageRepo.DeleteByUser(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}
