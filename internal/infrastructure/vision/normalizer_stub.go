//go:build !gocv
// +build !gocv

package vision

import "prawn-diagnosis/internal/domain/port"

// GoCVNormalizer без OpenCV отдаёт изображение как есть.
type GoCVNormalizer struct {
	MaxSide      int
	MinImageSide int
	JPEGQuality  int
}

// NewGoCVNormalizer создаёт нормализатор-заглушку (без OpenCV).
func NewGoCVNormalizer() *GoCVNormalizer {
	return &GoCVNormalizer{
		MaxSide:      1024,
		MinImageSide: 64,
		JPEGQuality:  90,
	}
}

// Normalize возвращает imageData без изменений.
func (n *GoCVNormalizer) Normalize(imageData []byte) ([]byte, error) {
	return imageData, nil
}

var _ port.ImageNormalizer = (*GoCVNormalizer)(nil)
