// ABOUTME: VirtualPty is an in-memory Pty for unit tests, mirroring pkg/tui/terminal/virtual.go's VirtualTerminal shape.
// ABOUTME: Input is fed by the test via Feed; output and attribute/size transitions are recorded for assertions.

package pty

import (
	"bytes"
	"io"
	"sync"
)

// VirtualPty is a fake Pty for unit tests. Input delivered via Feed is
// readable from SlaveInput; writes to SlaveOutput accumulate in an
// inspectable buffer.
type VirtualPty struct {
	mu sync.Mutex

	in  *io.PipeReader
	inW *io.PipeWriter
	out bytes.Buffer

	attr   Attr
	size   Size
	closed bool
}

// NewVirtualPty returns a VirtualPty with the given initial window
// size.
func NewVirtualPty(rows, cols uint16) *VirtualPty {
	r, w := io.Pipe()
	return &VirtualPty{in: r, inW: w, size: Size{Rows: rows, Cols: cols}}
}

// Feed makes data available to read from SlaveInput, as if it had
// arrived over the wire.
func (v *VirtualPty) Feed(data []byte) {
	go func() {
		_, _ = v.inW.Write(data)
	}()
}

// CloseInput signals EOF to any pending SlaveInput read.
func (v *VirtualPty) CloseInput() {
	_ = v.inW.Close()
}

func (v *VirtualPty) SlaveInput() io.Reader  { return v.in }
func (v *VirtualPty) SlaveOutput() io.Writer { return v }

func (v *VirtualPty) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out.Write(p)
}

// Output returns everything written to SlaveOutput so far.
func (v *VirtualPty) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out.String()
}

func (v *VirtualPty) Attr() (Attr, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attr, nil
}

func (v *VirtualPty) SetAttr(attr Attr) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attr = attr
	return nil
}

func (v *VirtualPty) GetSize() (Size, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size, nil
}

func (v *VirtualPty) SetSize(size Size) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.size = size
	return nil
}

func (v *VirtualPty) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	_ = v.inW.Close()
	return nil
}
