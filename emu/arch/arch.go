/*
   RV - Base ISA selection.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package arch

// Base selects which base integer ISA a hart implements. It fixes the
// register and address width; everything else consults it at construction.
type Base int

const (
	RV32I Base = iota // 32 bit base integer ISA
	RV64I             // 64 bit base integer ISA
)

// Number of bits in an address or register.
func (base Base) XLEN() int {
	if base == RV32I {
		return 32
	}
	return 64
}

// Number of bytes in an address or register.
func (base Base) Bytes() uint64 {
	return uint64(base.XLEN() / 8)
}

// Whether the RV64I instruction set is available. RV32I always is.
func (base Base) SupportsRV64() bool {
	return base == RV64I
}

// Mask covering the valid address bits of this base. Addresses are held
// in a 64 bit carrier; the address space is circular, so arithmetic is
// reduced with Trunc rather than range checked.
func (base Base) Mask() uint64 {
	if base == RV32I {
		return 0x00000000ffffffff
	}
	return 0xffffffffffffffff
}

// Reduce an address modulo the address space size.
func (base Base) Trunc(addr uint64) uint64 {
	return addr & base.Mask()
}

func (base Base) String() string {
	if base == RV32I {
		return "RV32I"
	}
	return "RV64I"
}
