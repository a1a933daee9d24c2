package memory

/*
 * RV  - Low level memory test cases
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
	"testing"
)

// A device claiming a fixed window, remembering traffic.
type testDevice struct {
	base   uint64
	size   uint64
	value  uint8
	lastWr uint8
}

func (d *testDevice) MapsAt(addr uint64) bool {
	return addr >= d.base && addr < d.base+d.size
}

func (d *testDevice) ReadByte(_ uint64) uint8 {
	return d.value
}

func (d *testDevice) WriteByte(_ uint64, v uint8) {
	d.lastWr = v
}

func (d *testDevice) Shutdown() {}

func (d *testDevice) Debug(_ string) error { return nil }

// Default and explicit sizes.
func TestNew(t *testing.T) {
	mem := New(0)
	if mem.Size() != DefaultSize {
		t.Errorf("Size got: %d expected: %d", mem.Size(), DefaultSize)
	}
	mem = New(4096)
	if mem.Size() != 4096 {
		t.Errorf("Size got: %d expected: %d", mem.Size(), 4096)
	}
	for i := uint64(0); i < 4096; i++ {
		if r := mem.ReadByte(i); r != 0 {
			t.Errorf("ReadByte(%d) initial got: %x expected: 0", i, r)
		}
	}
}

// Typed accessors round trip, little endian.
func TestReadWrite(t *testing.T) {
	mem := New(4096)

	mem.WriteByte(16, 0xa5)
	if r := mem.ReadByte(16); r != 0xa5 {
		t.Errorf("ReadByte got: %x expected: %x", r, 0xa5)
	}

	mem.WriteHalf(32, 0x1234)
	if r := mem.ReadHalf(32); r != 0x1234 {
		t.Errorf("ReadHalf got: %x expected: %x", r, 0x1234)
	}
	if r := mem.ReadByte(32); r != 0x34 {
		t.Errorf("ReadHalf not little endian got: %x expected: %x", r, 0x34)
	}

	mem.WriteWord(64, 0xdeadbeef)
	if r := mem.ReadWord(64); r != 0xdeadbeef {
		t.Errorf("ReadWord got: %x expected: %x", r, 0xdeadbeef)
	}
	if r := mem.ReadByte(64); r != 0xef {
		t.Errorf("ReadWord not little endian got: %x expected: %x", r, 0xef)
	}

	mem.WriteDouble(128, 0x0123456789abcdef)
	if r := mem.ReadDouble(128); r != 0x0123456789abcdef {
		t.Errorf("ReadDouble got: %x expected: %x", r, uint64(0x0123456789abcdef))
	}

	// Unaligned accesses work at this layer.
	mem.WriteWord(3, 0x11223344)
	if r := mem.ReadWord(3); r != 0x11223344 {
		t.Errorf("ReadWord unaligned got: %x expected: %x", r, 0x11223344)
	}
}

// The address space is circular over the memory size.
func TestCircular(t *testing.T) {
	mem := New(1024)
	mem.WriteByte(1024, 0x42)
	if r := mem.ReadByte(0); r != 0x42 {
		t.Errorf("ReadByte(0) after write at size got: %x expected: %x", r, 0x42)
	}
	mem.WriteWord(1024+8, 0xcafef00d)
	if r := mem.ReadWord(8); r != 0xcafef00d {
		t.Errorf("ReadWord wrap got: %x expected: %x", r, 0xcafef00d)
	}
}

// A device registered first wins over RAM and later devices.
func TestMMIOPriority(t *testing.T) {
	mem := New(4096)
	first := &testDevice{base: 256, size: 8, value: 0x11}
	second := &testDevice{base: 256, size: 8, value: 0x22}
	mem.Register(first)
	mem.Register(second)

	mem.mem[256] = 0x33
	if r := mem.ReadByte(256); r != 0x11 {
		t.Errorf("ReadByte device priority got: %x expected: %x", r, 0x11)
	}

	mem.WriteByte(257, 0x44)
	if first.lastWr != 0x44 {
		t.Errorf("WriteByte device got: %x expected: %x", first.lastWr, 0x44)
	}
	if second.lastWr != 0 {
		t.Errorf("WriteByte hit second device got: %x expected: 0", second.lastWr)
	}
	if mem.mem[257] != 0 {
		t.Errorf("WriteByte hit RAM got: %x expected: 0", mem.mem[257])
	}

	// Outside the window RAM serves the access.
	mem.WriteByte(300, 0x55)
	if r := mem.ReadByte(300); r != 0x55 {
		t.Errorf("ReadByte outside window got: %x expected: %x", r, 0x55)
	}
}

// Devices can sit above the top of RAM.
func TestMMIOAboveRAM(t *testing.T) {
	mem := New(1024)
	dev := &testDevice{base: 0x10000000, size: 8, value: 0x77}
	mem.Register(dev)
	if r := mem.ReadByte(0x10000003); r != 0x77 {
		t.Errorf("ReadByte high device got: %x expected: %x", r, 0x77)
	}
}

// Checked accessors fail out of range instead of wrapping.
func TestCheckedAccess(t *testing.T) {
	mem := New(1024)

	if mem.PutWord(512, 0x87654321) {
		t.Error("PutWord in range failed")
	}
	value, fail := mem.GetWord(512)
	if fail || value != 0x87654321 {
		t.Errorf("GetWord got: %x,%v expected: %x,false", value, fail, 0x87654321)
	}

	if _, fail := mem.GetWord(1022); !fail {
		t.Error("GetWord spanning the end did not fail")
	}
	if !mem.PutWord(1024, 1) {
		t.Error("PutWord out of range did not fail")
	}
	if _, fail := mem.GetDouble(1020); !fail {
		t.Error("GetDouble spanning the end did not fail")
	}
	if mem.PutDouble(1016, 0x1122334455667788) {
		t.Error("PutDouble in range failed")
	}
	value64, fail := mem.GetDouble(1016)
	if fail || value64 != 0x1122334455667788 {
		t.Errorf("GetDouble got: %x,%v expected: %x,false", value64, fail, uint64(0x1122334455667788))
	}

	if !mem.CheckAddr(1023) || mem.CheckAddr(1024) {
		t.Error("CheckAddr boundary wrong")
	}
}

// Program images land in RAM with a range check.
func TestPutBytes(t *testing.T) {
	mem := New(1024)
	if mem.PutBytes(100, []byte{1, 2, 3, 4}) {
		t.Error("PutBytes in range failed")
	}
	for i := uint64(0); i < 4; i++ {
		if r := mem.ReadByte(100 + i); r != uint8(i+1) {
			t.Errorf("ReadByte(%d) got: %x expected: %x", 100+i, r, i+1)
		}
	}
	if !mem.PutBytes(1022, []byte{1, 2, 3}) {
		t.Error("PutBytes out of range did not fail")
	}
}
