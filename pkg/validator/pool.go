package validator

import (
	"bytes"
	"sync"
)

// ============================================================================
// 对象池优化 - 减少消息渲染时的内存分配
// ============================================================================

// maxPooledBufferCap 超过该容量的缓冲区不归还，防止池中长期持有大块内存
const maxPooledBufferCap = 10 * 1024

// bufferPool 模板插值与消息拼接复用的缓冲区
// bytes.Buffer 的 Reset 保留底层数组，String 会复制内容，归还后不影响已返回的字符串
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// acquireBuffer 从对象池获取缓冲区
// 使用后必须调用 releaseBuffer 归还
func acquireBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// releaseBuffer 将缓冲区归还到对象池
func releaseBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}

	// 防止内存泄漏：过大的缓冲区交给 GC
	if buf.Cap() > maxPooledBufferCap {
		return
	}

	buf.Reset()
	bufferPool.Put(buf)
}
