package source

import (
	"image"
	"sync"
)

// Buffer holds the latest decoded frame. A producer goroutine stores frames;
// the render loop loads them. A loaded frame is never written again.
type Buffer struct {
	mu    sync.RWMutex
	frame *image.RGBA
}

// Store copies pix (tightly packed RGBA, w*h*4 bytes) into a fresh frame.
func (b *Buffer) Store(pix []byte, w, h int) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, pix)
	b.StoreImage(dst)
}

// StoreImage swaps img in as the current frame without copying.
// The caller must not modify img afterwards.
func (b *Buffer) StoreImage(img *image.RGBA) {
	b.mu.Lock()
	b.frame = img
	b.mu.Unlock()
}

// Load returns the current frame, or nil if none has been stored.
func (b *Buffer) Load() image.Image {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.frame == nil {
		return nil
	}
	return b.frame
}

// Ready reports whether a frame has been stored.
func (b *Buffer) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame != nil
}

// Reset drops the current frame.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.frame = nil
	b.mu.Unlock()
}
