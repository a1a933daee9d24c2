/*
   RV - Hart register file.

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

package register

import (
	"github.com/rcornwell/RV/emu/arch"
)

// Number of control and status registers.
const CsrCount = 4096

// CSR numbers recognized by name. The full 4096 entry space is
// addressable; only these have assigned meanings in this simulator.
const (
	USTATUS  = 0x000
	UIE      = 0x004
	UTVEC    = 0x005
	USCRATCH = 0x040
	UEPC     = 0x041
	UCAUSE   = 0x042
	UTVAL    = 0x043
	UIP      = 0x044

	SSTATUS    = 0x100
	SEDELEG    = 0x102
	SIDELEG    = 0x103
	SIE        = 0x104
	STVEC      = 0x105
	SCOUNTEREN = 0x106
	SSCRATCH   = 0x140
	SEPC       = 0x141
	SCAUSE     = 0x142
	STVAL      = 0x143
	SIP        = 0x144
	SATP       = 0x180

	MVENDORID = 0xF11 // Read only
	MARCHID   = 0xF12 // Read only
	MIMPID    = 0xF13 // Read only
	MHARTID   = 0xF14 // Read only

	MSTATUS    = 0x300
	MISA       = 0x301
	MEDELEG    = 0x302
	MIDELEG    = 0x303
	MIE        = 0x304
	MTVEC      = 0x305
	MCOUNTEREN = 0x306
	MSCRATCH   = 0x340
	MEPC       = 0x341
	MCAUSE     = 0x342
	MTVAL      = 0x343
	MIP        = 0x344
)

// File holds the registers of one hart: the integer registers, the
// program counter and the CSR bank. x0 is not stored; it reads as zero
// and swallows writes, so executor paths never special case it. The
// file is shared by pointer between the executor and the MMU; both only
// ever run on the hart's thread.
type File struct {
	base  arch.Base
	xregs [31]uint64 // x1..x31, x0 is synthesized
	pc    uint64
	csrs  [CsrCount]uint64
}

// Create a register file with every register zero. Loading MISA and the
// identification CSRs with their constants is up to the hosting process.
func NewFile(base arch.Base) *File {
	return &File{base: base}
}

// Read integer register reg. Register 0 always reads as zero.
func (file *File) ReadX(reg int) uint64 {
	if reg == 0 {
		return 0
	}
	return file.xregs[reg-1]
}

// Write integer register reg. Writes to register 0 are dropped.
func (file *File) WriteX(reg int, value uint64) {
	if reg != 0 {
		file.xregs[reg-1] = file.base.Trunc(value)
	}
}

// Read CSR number num.
func (file *File) ReadCSR(num int) uint64 {
	return file.csrs[num]
}

// Write CSR number num. The vendor identification registers are read
// only; writes to them are dropped. All other writes store the value
// verbatim, side effects such as SATP switching the MMU mode come from
// the consumer reading the new value.
func (file *File) WriteCSR(num int, value uint64) {
	switch num {
	case MVENDORID, MARCHID, MIMPID, MHARTID:
		return
	}
	file.csrs[num] = file.base.Trunc(value)
}

// Current program counter.
func (file *File) PC() uint64 {
	return file.pc
}

// Set the program counter.
func (file *File) SetPC(value uint64) {
	file.pc = file.base.Trunc(value)
}

// Base this file was created for.
func (file *File) Base() arch.Base {
	return file.base
}
