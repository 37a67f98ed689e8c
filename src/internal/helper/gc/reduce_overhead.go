// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	Len() int
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used when encoding PEM bundles and
// reading certificate and key store files.
//
// Example usage for reading a key store file:
//
//	buf := gc.Default.Get()
//
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent key material from leaking
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	f, err := os.Open("store.pem")
//	if err != nil {
//		return nil, err
//	}
//	defer f.Close()
//
//	if _, err := buf.ReadFrom(f); err != nil {
//		return nil, fmt.Errorf("error reading key store: %w", err)
//	}
//
//	store, err := pki.FromPEM(buf.Bytes())
//
// Callers must copy anything they keep from Bytes before returning the buffer.
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// ReadAll reads r to EOF through a pooled buffer and returns a copy of the data.
func ReadAll(r io.Reader) ([]byte, error) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}
