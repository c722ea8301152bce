package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBufferPool 测试缓冲区对象池
func TestBufferPool(t *testing.T) {
	t.Run("获取的缓冲区为空", func(t *testing.T) {
		buf := acquireBuffer()
		buf.WriteString("leftover")
		releaseBuffer(buf)

		buf = acquireBuffer()
		defer releaseBuffer(buf)
		assert.Equal(t, 0, buf.Len())
	})

	t.Run("归还时保留容量", func(t *testing.T) {
		buf := acquireBuffer()
		buf.WriteString(strings.Repeat("a", 1024))
		capacity := buf.Cap()
		releaseBuffer(buf)

		assert.Equal(t, 0, buf.Len())
		assert.Equal(t, capacity, buf.Cap())
	})

	t.Run("返回的字符串不受复用影响", func(t *testing.T) {
		buf := acquireBuffer()
		buf.WriteString("first")
		s := buf.String()
		releaseBuffer(buf)

		buf = acquireBuffer()
		buf.WriteString("other")
		releaseBuffer(buf)
		assert.Equal(t, "first", s)
	})

	t.Run("nil 与过大的缓冲区", func(t *testing.T) {
		assert.NotPanics(t, func() { releaseBuffer(nil) })

		buf := acquireBuffer()
		buf.WriteString(strings.Repeat("b", maxPooledBufferCap+1))
		assert.NotPanics(t, func() { releaseBuffer(buf) })
	})
}
