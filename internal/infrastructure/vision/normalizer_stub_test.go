//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoCVNormalizer_PassThrough(t *testing.T) {
	out, err := NewGoCVNormalizer().Normalize([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg bytes"), out)
}
