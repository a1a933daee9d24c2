package register

/*
 * RV  - Register file test cases
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

	"github.com/rcornwell/RV/emu/arch"
)

// Register zero reads as zero no matter what is written.
func TestX0Hardwired(t *testing.T) {
	file := NewFile(arch.RV64I)
	for _, v := range []uint64{0, 1, 0xdeadbeef, 0xffffffffffffffff} {
		file.WriteX(0, v)
		if r := file.ReadX(0); r != 0 {
			t.Errorf("ReadX(0) got: %x expected: 0", r)
		}
	}
}

// Every other integer register holds what was written.
func TestXRegisters(t *testing.T) {
	file := NewFile(arch.RV64I)
	for i := 1; i < 32; i++ {
		v := uint64(i) * 0x0101010101010101
		file.WriteX(i, v)
		if r := file.ReadX(i); r != v {
			t.Errorf("ReadX(%d) got: %x expected: %x", i, r, v)
		}
	}
	// Writes to one register leave the others alone.
	for i := 1; i < 32; i++ {
		v := uint64(i) * 0x0101010101010101
		if r := file.ReadX(i); r != v {
			t.Errorf("ReadX(%d) after writes got: %x expected: %x", i, r, v)
		}
	}
}

// On RV32 the register file holds 32 bit values.
func TestXRegistersRV32(t *testing.T) {
	file := NewFile(arch.RV32I)
	file.WriteX(5, 0x123456789abcdef0)
	if r := file.ReadX(5); r != 0x9abcdef0 {
		t.Errorf("ReadX(5) got: %x expected: %x", r, 0x9abcdef0)
	}
}

// The vendor identification CSRs swallow writes.
func TestReadOnlyCSRs(t *testing.T) {
	file := NewFile(arch.RV64I)
	for _, num := range []int{MVENDORID, MARCHID, MIMPID, MHARTID} {
		file.WriteCSR(num, 0x1234)
		if r := file.ReadCSR(num); r != 0 {
			t.Errorf("ReadCSR(%03x) got: %x expected: 0", num, r)
		}
	}
}

// All other CSRs hold what was written.
func TestCSRs(t *testing.T) {
	file := NewFile(arch.RV64I)
	for num := 0; num < CsrCount; num++ {
		switch num {
		case MVENDORID, MARCHID, MIMPID, MHARTID:
			continue
		}
		v := uint64(num)<<32 | 0x5a5a
		file.WriteCSR(num, v)
		if r := file.ReadCSR(num); r != v {
			t.Errorf("ReadCSR(%03x) got: %x expected: %x", num, r, v)
		}
	}
}

// The PC is held at the width of the base.
func TestPC(t *testing.T) {
	file := NewFile(arch.RV64I)
	file.SetPC(0x80001234)
	if r := file.PC(); r != 0x80001234 {
		t.Errorf("PC got: %x expected: %x", r, 0x80001234)
	}

	file32 := NewFile(arch.RV32I)
	file32.SetPC(0x180001234)
	if r := file32.PC(); r != 0x80001234 {
		t.Errorf("PC on RV32 got: %x expected: %x", r, 0x80001234)
	}
}

// Fresh register files are all zero.
func TestInitialState(t *testing.T) {
	file := NewFile(arch.RV64I)
	for i := range 32 {
		if r := file.ReadX(i); r != 0 {
			t.Errorf("ReadX(%d) initial got: %x expected: 0", i, r)
		}
	}
	for num := 0; num < CsrCount; num++ {
		if r := file.ReadCSR(num); r != 0 {
			t.Errorf("ReadCSR(%03x) initial got: %x expected: 0", num, r)
		}
	}
	if file.PC() != 0 {
		t.Errorf("PC initial got: %x expected: 0", file.PC())
	}
}
