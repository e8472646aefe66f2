package unlock

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeAnswer 答案归一化：去首尾空白、全小写
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// HashAnswer 对归一化后的答案做 SHA-256，十六进制编码
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(NormalizeAnswer(answer)))
	return hex.EncodeToString(sum[:])
}
