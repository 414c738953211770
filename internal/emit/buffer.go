package emit

import "bytes"

// BufferEmitter is the default in-memory BinaryEmitter: every caller that
// just wants the finished byte slice (CLI output, the wrapper packages,
// tests) uses this instead of writing a custom sink.
type BufferEmitter struct {
	buf bytes.Buffer
}

func (b *BufferEmitter) WriteByte(c byte) error {
	return b.buf.WriteByte(c)
}

func (b *BufferEmitter) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// Bytes returns the accumulated module bytes.
func (b *BufferEmitter) Bytes() []byte {
	return b.buf.Bytes()
}

// EmitToBytes is a convenience wrapper: build an Emitter over a fresh
// BufferEmitter, emit m, and return the resulting bytes.
func EmitToBytes(m *Module) ([]byte, error) {
	be := &BufferEmitter{}
	if err := New(be).Emit(m); err != nil {
		return nil, err
	}
	return be.Bytes(), nil
}
