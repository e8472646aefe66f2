package util

import (
	"io"
	"net/http"
)

// GetSafeContentType 基于文件头嗅探 MIME 类型，不信任客户端声明。
// 读取后将游标重置回起始位置。
func GetSafeContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}
