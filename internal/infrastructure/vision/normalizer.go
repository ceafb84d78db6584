//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"prawn-diagnosis/internal/domain/port"
)

// GoCVNormalizer уменьшает большие изображения и пережимает их в JPEG
// перед отправкой в модель.
type GoCVNormalizer struct {
	MaxSide      int
	MinImageSide int
	JPEGQuality  int
}

// NewGoCVNormalizer создаёт нормализатор со стандартными лимитами.
func NewGoCVNormalizer() *GoCVNormalizer {
	return &GoCVNormalizer{
		MaxSide:      1024,
		MinImageSide: 64,
		JPEGQuality:  90,
	}
}

// Normalize декодирует изображение, ужимает до MaxSide и возвращает JPEG.
func (n *GoCVNormalizer) Normalize(imageData []byte) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Cols() < n.MinImageSide || mat.Rows() < n.MinImageSide {
		return nil, errors.New("image is too small")
	}

	if mat.Cols() > n.MaxSide || mat.Rows() > n.MaxSide {
		scale := float64(n.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		newW := int(float64(mat.Cols()) * scale)
		newH := int(float64(mat.Rows()) * scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, n.JPEGQuality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if mat.Ptr() != nil {
		mat.Close()
	}
	return gocv.Mat{}, errors.New("failed to decode image")
}

var _ port.ImageNormalizer = (*GoCVNormalizer)(nil)
