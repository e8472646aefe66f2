package util

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
)

const (
	ThumbMaxWidth  = 400
	ThumbMaxHeight = 400
	ThumbQuality   = 80
)

// ImageMeta 原图尺寸与缩略图数据
type ImageMeta struct {
	Width       int
	Height      int
	Thumb       *bytes.Buffer
	ThumbWidth  int
	ThumbHeight int
}

// ProcessImage 解码图片并生成 JPEG 缩略图，保留原图尺寸信息
func ProcessImage(r io.Reader) (*ImageMeta, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	thumb := imaging.Fit(img, ThumbMaxWidth, ThumbMaxHeight, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err = imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbQuality)); err != nil {
		return nil, err
	}

	return &ImageMeta{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Thumb:       buf,
		ThumbWidth:  thumb.Bounds().Dx(),
		ThumbHeight: thumb.Bounds().Dy(),
	}, nil
}
