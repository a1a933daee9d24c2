/*
   RV - Memory management unit, Sv32/Sv39/Sv48 page table walker.

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

package mmu

import (
	"fmt"

	"github.com/rcornwell/RV/emu/arch"
	mem "github.com/rcornwell/RV/emu/memory"
	reg "github.com/rcornwell/RV/emu/register"
	"github.com/rcornwell/RV/emu/trap"
)

// How an address is being accessed. Selects both the permission bit a
// leaf PTE must carry and the page fault flavor raised on failure.
type AccessMode int

const (
	AccessExecute AccessMode = iota
	AccessRead
	AccessWrite
)

// Paging mode, from the SATP mode field.
type Mode int

const (
	Bare Mode = iota
	Sv32
	Sv39
	Sv48
)

// SATP mode field encodings.
const (
	satpBare uint64 = 0
	satpSv32 uint64 = 1
	satpSv39 uint64 = 8
	satpSv48 uint64 = 9
)

const pageSize = 4096

// Status register bits consulted during permission checks.
const (
	statusSUM uint64 = 1 << 18 // Permit supervisor access to user pages
	statusMXR uint64 = 1 << 19 // Make executable pages readable
)

// Page table entry. One integer with a flag byte; the PPN fields are
// carved out per paging mode.
type PTE uint64

// PTE flag byte, D A G U X W R V high to low.
const (
	pteV PTE = 1 << 0
	pteR PTE = 1 << 1
	pteW PTE = 1 << 2
	pteX PTE = 1 << 3
	pteU PTE = 1 << 4
	pteG PTE = 1 << 5
	pteA PTE = 1 << 6
	pteD PTE = 1 << 7
)

func (pte PTE) Valid() bool    { return pte&pteV != 0 }
func (pte PTE) Read() bool     { return pte&pteR != 0 }
func (pte PTE) Write() bool    { return pte&pteW != 0 }
func (pte PTE) Exec() bool     { return pte&pteX != 0 }
func (pte PTE) User() bool     { return pte&pteU != 0 }
func (pte PTE) Global() bool   { return pte&pteG != 0 }
func (pte PTE) Accessed() bool { return pte&pteA != 0 }
func (pte PTE) Dirty() bool    { return pte&pteD != 0 }

// A PTE is a leaf when it grants read or execute; otherwise it points
// at the next table level.
func (pte PTE) Leaf() bool {
	return pte&(pteR|pteX) != 0
}

// A PTE with the valid bit clear, or write granted without read, is
// malformed.
func (pte PTE) Malformed() bool {
	return pte&pteV == 0 || (pte&pteR == 0 && pte&pteW != 0)
}

// Full physical page number of the entry.
func (pte PTE) PPN(mode Mode) uint64 {
	if mode == Sv32 {
		return uint64(pte>>10) & 0x3fffff
	}
	return uint64(pte>>10) & 0xfffffffffff
}

// One PPN field of the entry. Sv32 fields are 10 bits, Sv39/Sv48 fields
// are 9; the walker only uses the low fields for superpage alignment,
// so the wider top field never matters here.
func (pte PTE) PPNField(mode Mode, level int) uint64 {
	if mode == Sv32 {
		return (pte.PPN(mode) >> (10 * level)) & 0x3ff
	}
	return (pte.PPN(mode) >> (9 * level)) & 0x1ff
}

// Decode a SATP value for the given base. Returns the raw mode field,
// the address space identifier and the root page table PPN.
func DecodeSATP(base arch.Base, value uint64) (mode uint64, asid uint64, ppn uint64) {
	if base == arch.RV32I {
		mode = (value >> 31) & 0x1
		asid = (value >> 22) & 0x1ff
		ppn = value & 0x3fffff
		return mode, asid, ppn
	}
	mode = (value >> 60) & 0xf
	asid = (value >> 44) & 0xffff
	ppn = value & 0xfffffffffff
	return mode, asid, ppn
}

// Map the SATP mode field to a paging mode. Mode encodings outside what
// the base supports cannot legally appear at runtime; hitting one is a
// configuration bug, not an architectural event.
func modeFor(base arch.Base, mode uint64) Mode {
	if base == arch.RV32I {
		switch mode {
		case satpBare:
			return Bare
		case satpSv32:
			return Sv32
		}
	} else {
		switch mode {
		case satpBare:
			return Bare
		case satpSv39:
			return Sv39
		case satpSv48:
			return Sv48
		}
	}
	panic(fmt.Sprintf("mmu: unsupported SATP mode %d for %s", mode, base))
}

// MMU translates virtual addresses to physical ones by walking the page
// tables in physical memory. It reads SATP and SSTATUS from the shared
// register file on every translation, so a CSR write takes effect on
// the next access; it never writes a CSR.
type MMU struct {
	base arch.Base
	mem  *mem.Memory
	regs *reg.File
}

// Create an MMU over the hart's memory and register file.
func New(base arch.Base, memory *mem.Memory, regs *reg.File) *MMU {
	return &MMU{base: base, mem: memory, regs: regs}
}

// Per mode walk parameters.
func walkParams(mode Mode) (levels int, pteSize uint64, vpnBits uint) {
	switch mode {
	case Sv32:
		return 2, 4, 10
	case Sv39:
		return 3, 8, 9
	}
	return 4, 8, 9
}

// Page fault flavor of an access mode.
func pageFault(access AccessMode) trap.Exception {
	switch access {
	case AccessExecute:
		return trap.InstructionPageFault
	case AccessWrite:
		return trap.StorePageFault
	}
	return trap.LoadPageFault
}

// Translate a virtual address for the given access and privilege mode.
// In bare mode, and for machine mode accesses, the address passes
// through unchanged. Every failure produces exactly one exception; the
// executor maps it into the trap machinery.
func (mmu *MMU) Translate(va uint64, access AccessMode, priv trap.Privilege) (uint64, error) {
	satp := mmu.regs.ReadCSR(reg.SATP)
	rawMode, _, rootPPN := DecodeSATP(mmu.base, satp)
	mode := modeFor(mmu.base, rawMode)

	if mode == Bare || priv == trap.Machine {
		return mmu.base.Trunc(va), nil
	}

	levels, pteSize, vpnBits := walkParams(mode)
	vpnMask := uint64(1)<<vpnBits - 1

	// Walk from the root. A pointer PTE drops one level and retries;
	// everything else either ends the walk or faults.
	a := rootPPN * pageSize
	i := levels - 1
	var pte PTE
	var pteAddr uint64
	for {
		vpn := (va >> (12 + vpnBits*uint(i))) & vpnMask
		pteAddr = a + vpn*pteSize
		var raw uint64
		var fail bool
		if mode == Sv32 {
			var w uint32
			w, fail = mmu.mem.GetWord(pteAddr)
			raw = uint64(w)
		} else {
			raw, fail = mmu.mem.GetDouble(pteAddr)
		}
		if fail {
			return 0, pageFault(access)
		}
		pte = PTE(raw)
		if pte.Malformed() {
			return 0, pageFault(access)
		}
		if pte.Leaf() {
			break
		}
		i--
		if i < 0 {
			return 0, pageFault(access)
		}
		a = pte.PPN(mode) * pageSize
	}

	// Permission checks against the access and privilege mode.
	status := mmu.regs.ReadCSR(reg.SSTATUS)
	switch access {
	case AccessExecute:
		if !pte.Exec() {
			return 0, pageFault(access)
		}
	case AccessRead:
		if !pte.Read() && !(pte.Exec() && status&statusMXR != 0) {
			return 0, pageFault(access)
		}
	case AccessWrite:
		if !pte.Write() {
			return 0, pageFault(access)
		}
	}
	switch priv {
	case trap.User:
		if !pte.User() {
			return 0, pageFault(access)
		}
	case trap.Supervisor:
		if pte.User() && (status&statusSUM == 0 || access == AccessExecute) {
			return 0, pageFault(access)
		}
	}

	// A leaf above the bottom level is a superpage; its low PPN fields
	// must be zero or the page is misaligned.
	for level := 0; level < i; level++ {
		if pte.PPNField(mode, level) != 0 {
			return 0, pageFault(access)
		}
	}

	// Hardware update of the accessed and dirty bits.
	updated := pte | pteA
	if access == AccessWrite {
		updated |= pteD
	}
	if updated != pte {
		if mode == Sv32 {
			mmu.mem.PutWord(pteAddr, uint32(updated))
		} else {
			mmu.mem.PutDouble(pteAddr, uint64(updated))
		}
	}

	// Assemble the physical address: leaf PPN above the superpage cut,
	// virtual address below it, page offset verbatim.
	cut := 12 + vpnBits*uint(i)
	top := pte.PPN(mode) >> (vpnBits * uint(i))
	pa := (top << cut) | (va & (uint64(1)<<cut - 1))
	return pa, nil
}
