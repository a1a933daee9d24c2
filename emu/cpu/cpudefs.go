/*
   CPU definitions for the RISC-V simulator.

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

package cpu

import (
	"github.com/rcornwell/RV/emu/arch"
	"github.com/rcornwell/RV/emu/instruction"
	mem "github.com/rcornwell/RV/emu/memory"
	"github.com/rcornwell/RV/emu/mmu"
	reg "github.com/rcornwell/RV/emu/register"
	"github.com/rcornwell/RV/emu/trap"
)

// Per step scratch state threaded through the execute functions.
type stepInfo struct {
	inst *instruction.Instruction
	pc   uint64 // Address of current instruction
	npc  uint64 // Next program counter
	tval uint64 // Trap value when the step raises an exception
}

// State of one hart. The register file is shared with the MMU, which
// reads SATP and SSTATUS during translation; everything runs on the
// hart's own goroutine, so no locking.
type CPU struct {
	base     arch.Base
	regs     *reg.File
	mem      *mem.Memory
	mmu      *mmu.MMU
	priv     trap.Privilege
	debugMsk int
	table    map[instruction.Kind]func(*CPU, *stepInfo) error
}

const (
	// MSTATUS/SSTATUS bit definitions.
	statusSIE  uint64 = 1 << 1 // Supervisor interrupt enable
	statusMIE  uint64 = 1 << 3 // Machine interrupt enable
	statusSPIE uint64 = 1 << 5 // Prior SIE
	statusMPIE uint64 = 1 << 7 // Prior MIE
	statusSPP  uint64 = 1 << 8 // Prior privilege, supervisor trap

	statusMPPShift = 11 // Prior privilege, machine trap
	statusMPPMask  uint64 = 3 << statusMPPShift

	// xTVEC mode field.
	tvecVectored uint64 = 1
)

const (
	// Debug options.
	debugInst = 1 << iota
	debugTrap
	debugMem
)

var debugOption = map[string]int{
	"INST": debugInst, // Trace instruction execution.
	"TRAP": debugTrap, // Trace trap taking.
	"MEM":  debugMem,  // Trace load and store traffic.
}
