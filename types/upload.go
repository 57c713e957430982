package types

// UploadImageResp 上传结果，URL 可直接用作头像或帖子图片
type UploadImageResp struct {
	ImageID     uint64 `json:"image_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}
