package bytebuffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetRelease(t *testing.T) {
	p := NewPool("staged-test")
	s := p.Get()
	assert.Equal(t, Owned, s.Ownership())
	assert.EqualValues(t, 1, p.Outstanding())
	assert.Equal(t, 0, s.Len())

	_, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = s.WriteString(" world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(s.Bytes()))

	assert.True(t, s.Release())
	assert.False(t, s.Release())
	assert.True(t, s.Released())
	assert.Nil(t, s.Bytes())
	assert.EqualValues(t, 0, p.Outstanding())
}

func TestStagedAppend(t *testing.T) {
	p := NewPool("staged-append")
	s := p.Get()
	defer s.Release()

	require.NoError(t, s.Append(func(b []byte) ([]byte, error) {
		return append(b, 1, 2, 3), nil
	}))
	err := s.Append(func(b []byte) ([]byte, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []byte{1, 2, 3}, s.Bytes())

	buf := s.Grow(16)
	assert.Len(t, buf, 16)
	assert.Equal(t, 16, s.Len())
	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestWrapIsBorrowed(t *testing.T) {
	raw := []byte{9, 8, 7}
	s := Wrap(raw)
	assert.Equal(t, Borrowed, s.Ownership())
	assert.Equal(t, raw, s.Bytes())
	assert.True(t, s.Release())
	assert.False(t, s.Release())
	assert.EqualValues(t, 0, Default.Outstanding())
	// 调用方的切片不受影响
	assert.Equal(t, []byte{9, 8, 7}, raw)
}

func TestNilStaged(t *testing.T) {
	var s *Staged
	assert.True(t, s.Released())
	assert.False(t, s.Release())
	assert.Nil(t, s.Bytes())
}

func TestPoolConcurrent(t *testing.T) {
	p := NewPool("staged-concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := p.Get()
				_, _ = s.Write([]byte{byte(i), byte(j)})
				s.Release()
			}
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 0, p.Outstanding())
}

func TestRawGetPut(t *testing.T) {
	b := Get()
	b.B = append(b.B[:0], "raw"...)
	assert.Equal(t, "raw", b.String())
	Put(b)
	Put(nil)
}
