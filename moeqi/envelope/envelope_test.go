package envelope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/container"
)

func TestWrapUnwrap(t *testing.T) {
	img := &common.Image{Width: 64, Height: 64, Format: common.Gray8, Data: make([]byte, 64*64)}
	for i := range img.Data {
		img.Data[i] = byte(i / 64)
	}
	stream, err := container.Encode(img, common.DefaultConfig())
	require.NoError(t, err)

	wrapped := Wrap(stream)
	assert.True(t, IsWrapped(wrapped))
	assert.False(t, IsWrapped(stream))
	assert.Less(t, len(wrapped), len(stream))

	got, err := Unwrap(wrapped)
	require.NoError(t, err)
	assert.Equal(t, stream, got)

	decoded, _, err := container.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, img.Data, decoded.Data)
}

func TestUnwrapPassesThroughBareStreams(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("MOEQI1"), []byte("MOEQIBIN\x02")} {
		got, err := Unwrap(data)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestWrapEmpty(t *testing.T) {
	wrapped := Wrap(nil)
	require.True(t, IsWrapped(wrapped))
	got, err := Unwrap(wrapped)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnwrapCorrupt(t *testing.T) {
	wrapped := Wrap(bytes.Repeat([]byte("moeqi "), 100))
	corrupt := append([]byte(nil), wrapped[:len(wrapped)/2]...)

	_, err := Unwrap(corrupt)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidData)
}
