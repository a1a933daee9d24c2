package uart

/*
 * RV - Console UART test cases
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"bytes"
	"testing"

	"github.com/rcornwell/RV/emu/event"
)

func TestWindow(t *testing.T) {
	u := New(0x10000000)
	if !u.MapsAt(0x10000000) || !u.MapsAt(0x10000007) {
		t.Error("MapsAt inside window wrong")
	}
	if u.MapsAt(0x0fffffff) || u.MapsAt(0x10000008) {
		t.Error("MapsAt outside window wrong")
	}
}

// Transmitted bytes drain to the output on the event clock.
func TestTransmit(t *testing.T) {
	u := New(0x10000000)
	var out bytes.Buffer
	u.out = &out

	for _, by := range []byte("ok") {
		u.WriteByte(0x10000000, by)
	}
	if out.Len() != 0 {
		t.Errorf("output before event got: %q", out.String())
	}
	event.Advance(txDelay)
	if out.String() != "o" {
		t.Errorf("output after one delay got: %q expected: %q", out.String(), "o")
	}
	event.Advance(txDelay)
	if out.String() != "ok" {
		t.Errorf("output got: %q expected: %q", out.String(), "ok")
	}
}

// Receive queue feeds reads and the status register.
func TestReceive(t *testing.T) {
	u := New(0x10000000)
	u.out = &bytes.Buffer{}

	if status := u.ReadByte(0x10000005); status&statusRxReady != 0 {
		t.Errorf("status got: %x expected rx empty", status)
	}
	if by := u.ReadByte(0x10000000); by != 0 {
		t.Errorf("ReadByte empty got: %x expected: 0", by)
	}

	u.Receive([]byte{0x41, 0x42})
	if status := u.ReadByte(0x10000005); status&statusRxReady == 0 {
		t.Errorf("status got: %x expected rx ready", status)
	}
	if by := u.ReadByte(0x10000000); by != 0x41 {
		t.Errorf("ReadByte got: %x expected: 41", by)
	}
	if by := u.ReadByte(0x10000000); by != 0x42 {
		t.Errorf("ReadByte got: %x expected: 42", by)
	}
	if status := u.ReadByte(0x10000005); status&statusRxReady != 0 {
		t.Errorf("status got: %x expected rx empty", status)
	}
}

// Shutdown flushes anything still on the shift register.
func TestShutdown(t *testing.T) {
	u := New(0x10000000)
	var out bytes.Buffer
	u.out = &out
	u.WriteByte(0x10000000, 'x')
	u.Shutdown()
	if out.String() != "x" {
		t.Errorf("output got: %q expected: %q", out.String(), "x")
	}
}

// Writes outside the data register are ignored.
func TestWriteStatus(t *testing.T) {
	u := New(0x10000000)
	var out bytes.Buffer
	u.out = &out
	u.WriteByte(0x10000005, 0xff)
	event.Advance(txDelay * 4)
	if out.Len() != 0 {
		t.Errorf("output got: %q expected empty", out.String())
	}
}
