package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptWindow(t *testing.T) {
	assert := assert.New(t)

	w := NewAcceptWindow(4)
	assert.Equal(4, w.BufSize)
	assert.Equal(0, w.Count)
	assert.False(w.Full())
	assert.Equal(0.0, w.Rate())

	w.Add(true)
	w.Add(false)
	assert.Equal(2, w.Count)
	assert.False(w.Full())
	assert.Equal(0.5, w.Rate())

	w.Add(true)
	w.Add(true)
	assert.True(w.Full())
	assert.Equal(0.75, w.Rate())
	assert.Equal(int64(4), w.TotalSeen)

	// Overwrites evict the oldest outcome: true,false,true,true ->
	// false,true,true,false
	w.Add(false)
	assert.True(w.Full())
	assert.Equal(0.5, w.Rate())
	assert.Equal(4, w.Count)
	assert.Equal(int64(5), w.TotalSeen)

	w.Reset()
	assert.Equal(0, w.Count)
	assert.False(w.Full())
	assert.Equal(0.0, w.Rate())
	assert.Equal(int64(5), w.TotalSeen) // Reset keeps the lifetime counter
}

func TestAcceptWindowDegenerateSize(t *testing.T) {
	assert := assert.New(t)

	w := NewAcceptWindow(0)
	assert.Equal(1, w.BufSize)

	w.Add(true)
	assert.True(w.Full())
	assert.Equal(1.0, w.Rate())

	w.Add(false)
	assert.Equal(0.0, w.Rate())
}
