package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentTypeKeepsStream(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	payload := append(png, bytes.Repeat([]byte{0x01}, 5000)...)

	mime, body, err := DetectContentType(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDetectContentTypeShortInput(t *testing.T) {
	mime, body, err := DetectContentType(strings.NewReader("just text"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mime, "text/plain"), mime)

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "just text", string(got))
}
