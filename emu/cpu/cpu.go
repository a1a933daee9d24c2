/*
   CPU: main instruction fetch and execute.

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
	"errors"
	"fmt"

	"github.com/rcornwell/RV/emu/arch"
	"github.com/rcornwell/RV/emu/instruction"
	mem "github.com/rcornwell/RV/emu/memory"
	"github.com/rcornwell/RV/emu/mmu"
	reg "github.com/rcornwell/RV/emu/register"
	"github.com/rcornwell/RV/emu/trap"
	"github.com/rcornwell/RV/util/debug"
)

// Create a hart over the given memory, starting in machine mode with
// every register zero.
func New(base arch.Base, memory *mem.Memory) *CPU {
	cpu := &CPU{
		base: base,
		regs: reg.NewFile(base),
		mem:  memory,
		priv: trap.Machine,
	}
	cpu.mmu = mmu.New(base, memory, cpu.regs)
	cpu.createTable()
	return cpu
}

// Register file of the hart, shared with the MMU.
func (cpu *CPU) Regs() *reg.File {
	return cpu.regs
}

// Physical memory of the hart.
func (cpu *CPU) Mem() *mem.Memory {
	return cpu.mem
}

// The hart's MMU.
func (cpu *CPU) MMU() *mmu.MMU {
	return cpu.mmu
}

// Current privilege mode.
func (cpu *CPU) Priv() trap.Privilege {
	return cpu.priv
}

// Force the privilege mode. Used by the hosting process to drop a
// loaded workload into supervisor or user mode before starting it.
func (cpu *CPU) SetPriv(priv trap.Privilege) {
	cpu.priv = priv
}

// Base ISA of the hart.
func (cpu *CPU) Base() arch.Base {
	return cpu.base
}

// Enable a debug option.
func (cpu *CPU) Debug(option string) error {
	mask, ok := debugOption[option]
	if !ok {
		return errors.New("CPU debug option invalid: " + option)
	}
	cpu.debugMsk |= mask
	return nil
}

// Execute one instruction or take a pending interrupt. Architectural
// traps are handled internally by redirecting the hart to its trap
// vector; the trap is also returned so callers can log or count it.
func (cpu *CPU) Step() error {
	if irq, pending := cpu.pendingInterrupt(); pending {
		cpu.takeInterrupt(irq)
		return nil
	}

	step := stepInfo{pc: cpu.regs.PC()}
	step.npc = cpu.base.Trunc(step.pc + 4)
	err := cpu.fetchExecute(&step)
	if err != nil {
		exc := err.(trap.Exception)
		debug.Debugf("CPU", cpu.debugMsk, debugTrap, "trap %s pc=%08x tval=%08x", exc, step.pc, step.tval)
		cpu.takeTrap(exc, step.pc, step.tval)
		return exc
	}
	cpu.regs.SetPC(step.npc)
	return nil
}

// Fetch, decode and dispatch one instruction.
func (cpu *CPU) fetchExecute(step *stepInfo) error {
	if step.pc&3 != 0 {
		step.tval = step.pc
		return trap.InstructionAddressMisaligned
	}
	pa, err := cpu.mmu.Translate(step.pc, mmu.AccessExecute, cpu.priv)
	if err != nil {
		step.tval = step.pc
		return err.(trap.Exception)
	}
	raw := cpu.mem.ReadWord(pa)
	inst := instruction.Decode(raw, cpu.base)
	if inst == nil {
		step.tval = uint64(raw)
		return trap.IllegalInstruction
	}
	step.inst = inst
	debug.Debugf("CPU", cpu.debugMsk, debugInst, "%08x: %s", step.pc, inst)
	return cpu.table[inst.Kind](cpu, step)
}

// Value of v as the signed number the base sees.
func (cpu *CPU) signed(v uint64) int64 {
	if cpu.base == arch.RV32I {
		return int64(int32(uint32(v)))
	}
	return int64(v)
}

// Sign extend the low word of v to 64 bits.
func sext32(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}

// Immediate of the current instruction as a sign extended address.
func immAddr(step *stepInfo) uint64 {
	return uint64(int64(step.inst.Imm))
}

// Load a value of the given size through the MMU.
func (cpu *CPU) load(step *stepInfo, size uint64) (uint64, error) {
	addr := cpu.base.Trunc(cpu.regs.ReadX(step.inst.Rs1) + immAddr(step))
	if addr&(size-1) != 0 {
		step.tval = addr
		return 0, trap.LoadAddressMisaligned
	}
	pa, err := cpu.mmu.Translate(addr, mmu.AccessRead, cpu.priv)
	if err != nil {
		step.tval = addr
		return 0, err.(trap.Exception)
	}
	var value uint64
	switch size {
	case 1:
		value = uint64(cpu.mem.ReadByte(pa))
	case 2:
		value = uint64(cpu.mem.ReadHalf(pa))
	case 4:
		value = uint64(cpu.mem.ReadWord(pa))
	case 8:
		value = cpu.mem.ReadDouble(pa)
	}
	debug.Debugf("CPU", cpu.debugMsk, debugMem, "load %08x -> %x", addr, value)
	return value, nil
}

// Store a value of the given size through the MMU.
func (cpu *CPU) store(step *stepInfo, size uint64, value uint64) error {
	addr := cpu.base.Trunc(cpu.regs.ReadX(step.inst.Rs1) + immAddr(step))
	if addr&(size-1) != 0 {
		step.tval = addr
		return trap.StoreAddressMisaligned
	}
	pa, err := cpu.mmu.Translate(addr, mmu.AccessWrite, cpu.priv)
	if err != nil {
		step.tval = addr
		return err.(trap.Exception)
	}
	debug.Debugf("CPU", cpu.debugMsk, debugMem, "store %08x <- %x", addr, value)
	switch size {
	case 1:
		cpu.mem.WriteByte(pa, uint8(value))
	case 2:
		cpu.mem.WriteHalf(pa, uint16(value))
	case 4:
		cpu.mem.WriteWord(pa, uint32(value))
	case 8:
		cpu.mem.WriteDouble(pa, value)
	}
	return nil
}

// Redirect control to a jump or branch target. Targets that are not
// instruction aligned raise the misalignment trap at the jump, before
// any fetch is attempted.
func (cpu *CPU) jump(step *stepInfo, target uint64) error {
	target = cpu.base.Trunc(target)
	if target&3 != 0 {
		step.tval = target
		return trap.InstructionAddressMisaligned
	}
	step.npc = target
	return nil
}

// Take an architectural trap: save state into the CSRs of the handling
// privilege and redirect to its vector. Exceptions delegated through
// MEDELEG land in supervisor mode when raised below machine mode.
func (cpu *CPU) takeTrap(exc trap.Exception, pc uint64, tval uint64) {
	cause := exc.Code()
	medeleg := cpu.regs.ReadCSR(reg.MEDELEG)
	if cpu.priv != trap.Machine && (medeleg>>cause)&1 != 0 {
		cpu.trapSupervisor(cause, pc, tval, false)
		return
	}
	cpu.trapMachine(cause, pc, tval, false)
}

// Enter the supervisor trap handler.
func (cpu *CPU) trapSupervisor(cause uint64, pc uint64, tval uint64, intr bool) {
	cpu.regs.WriteCSR(reg.SEPC, pc)
	cpu.regs.WriteCSR(reg.SCAUSE, cpu.causeValue(cause, intr))
	cpu.regs.WriteCSR(reg.STVAL, tval)

	status := cpu.regs.ReadCSR(reg.SSTATUS)
	status &^= statusSPIE | statusSPP
	if status&statusSIE != 0 {
		status |= statusSPIE
	}
	if cpu.priv == trap.Supervisor {
		status |= statusSPP
	}
	status &^= statusSIE
	cpu.regs.WriteCSR(reg.SSTATUS, status)

	cpu.priv = trap.Supervisor
	cpu.regs.SetPC(cpu.vector(cpu.regs.ReadCSR(reg.STVEC), cause, intr))
}

// Enter the machine trap handler.
func (cpu *CPU) trapMachine(cause uint64, pc uint64, tval uint64, intr bool) {
	cpu.regs.WriteCSR(reg.MEPC, pc)
	cpu.regs.WriteCSR(reg.MCAUSE, cpu.causeValue(cause, intr))
	cpu.regs.WriteCSR(reg.MTVAL, tval)

	status := cpu.regs.ReadCSR(reg.MSTATUS)
	status &^= statusMPIE | statusMPPMask
	if status&statusMIE != 0 {
		status |= statusMPIE
	}
	status |= uint64(cpu.priv) << statusMPPShift
	status &^= statusMIE
	cpu.regs.WriteCSR(reg.MSTATUS, status)

	cpu.priv = trap.Machine
	cpu.regs.SetPC(cpu.vector(cpu.regs.ReadCSR(reg.MTVEC), cause, intr))
}

// xCAUSE value: the code, with the interrupt bit for interrupts.
func (cpu *CPU) causeValue(cause uint64, intr bool) uint64 {
	if intr {
		return cause | uint64(1)<<(cpu.base.XLEN()-1)
	}
	return cause
}

// Handler address from an xTVEC value. Vectored mode spreads interrupt
// handlers by cause; exceptions always use the base.
func (cpu *CPU) vector(tvec uint64, cause uint64, intr bool) uint64 {
	base := tvec &^ 3
	if intr && tvec&3 == tvecVectored {
		return cpu.base.Trunc(base + 4*cause)
	}
	return base
}

// Interrupt priority, highest first.
var interruptOrder = []trap.Interrupt{
	trap.MachineExternal,
	trap.MachineSoftware,
	trap.MachineTimer,
	trap.SupervisorExternal,
	trap.SupervisorSoftware,
	trap.SupervisorTimer,
	trap.UserExternal,
	trap.UserSoftware,
	trap.UserTimer,
}

// Check for a pending, enabled interrupt.
func (cpu *CPU) pendingInterrupt() (trap.Interrupt, bool) {
	pending := cpu.regs.ReadCSR(reg.MIP) & cpu.regs.ReadCSR(reg.MIE)
	if pending == 0 {
		return 0, false
	}
	mideleg := cpu.regs.ReadCSR(reg.MIDELEG)
	mstatus := cpu.regs.ReadCSR(reg.MSTATUS)
	sstatus := cpu.regs.ReadCSR(reg.SSTATUS)
	for _, irq := range interruptOrder {
		bit := uint64(1) << irq.Code()
		if pending&bit == 0 {
			continue
		}
		if mideleg&bit != 0 {
			// Delegated to supervisor mode.
			if cpu.priv < trap.Supervisor ||
				(cpu.priv == trap.Supervisor && sstatus&statusSIE != 0) {
				return irq, true
			}
		} else {
			if cpu.priv < trap.Machine ||
				(cpu.priv == trap.Machine && mstatus&statusMIE != 0) {
				return irq, true
			}
		}
	}
	return 0, false
}

// Take a pending interrupt.
func (cpu *CPU) takeInterrupt(irq trap.Interrupt) {
	debug.Debugf("CPU", cpu.debugMsk, debugTrap, "interrupt %s pc=%08x", irq, cpu.regs.PC())
	bit := uint64(1) << irq.Code()
	if cpu.regs.ReadCSR(reg.MIDELEG)&bit != 0 {
		cpu.trapSupervisor(irq.Code(), cpu.regs.PC(), 0, true)
		return
	}
	cpu.trapMachine(irq.Code(), cpu.regs.PC(), 0, true)
}

// Post or clear a machine interrupt pending bit. Used by the hosting
// process; devices have no interrupt wiring in this simulator.
func (cpu *CPU) PostInterrupt(irq trap.Interrupt, set bool) {
	mip := cpu.regs.ReadCSR(reg.MIP)
	bit := uint64(1) << irq.Code()
	if set {
		mip |= bit
	} else {
		mip &^= bit
	}
	cpu.regs.WriteCSR(reg.MIP, mip)
}

// Build the dispatch table. Called once at creation.
func (cpu *CPU) createTable() {
	cpu.table = map[instruction.Kind]func(*CPU, *stepInfo) error{
		instruction.ADDI:   (*CPU).opADDI,
		instruction.SLTI:   (*CPU).opSLTI,
		instruction.SLTIU:  (*CPU).opSLTIU,
		instruction.ANDI:   (*CPU).opANDI,
		instruction.ORI:    (*CPU).opORI,
		instruction.XORI:   (*CPU).opXORI,
		instruction.SLLI:   (*CPU).opSLLI,
		instruction.SRLI:   (*CPU).opSRLI,
		instruction.SRAI:   (*CPU).opSRAI,
		instruction.ADD:    (*CPU).opADD,
		instruction.SUB:    (*CPU).opSUB,
		instruction.SLL:    (*CPU).opSLL,
		instruction.SLT:    (*CPU).opSLT,
		instruction.SLTU:   (*CPU).opSLTU,
		instruction.XOR:    (*CPU).opXOR,
		instruction.SRL:    (*CPU).opSRL,
		instruction.SRA:    (*CPU).opSRA,
		instruction.OR:     (*CPU).opOR,
		instruction.AND:    (*CPU).opAND,
		instruction.LUI:    (*CPU).opLUI,
		instruction.AUIPC:  (*CPU).opAUIPC,
		instruction.JAL:    (*CPU).opJAL,
		instruction.JALR:   (*CPU).opJALR,
		instruction.BEQ:    (*CPU).opBranch,
		instruction.BNE:    (*CPU).opBranch,
		instruction.BLT:    (*CPU).opBranch,
		instruction.BGE:    (*CPU).opBranch,
		instruction.BLTU:   (*CPU).opBranch,
		instruction.BGEU:   (*CPU).opBranch,
		instruction.LB:     (*CPU).opLB,
		instruction.LH:     (*CPU).opLH,
		instruction.LW:     (*CPU).opLW,
		instruction.LBU:    (*CPU).opLBU,
		instruction.LHU:    (*CPU).opLHU,
		instruction.LWU:    (*CPU).opLWU,
		instruction.LD:     (*CPU).opLD,
		instruction.SB:     (*CPU).opSB,
		instruction.SH:     (*CPU).opSH,
		instruction.SW:     (*CPU).opSW,
		instruction.SD:     (*CPU).opSD,
		instruction.FENCE:  (*CPU).opFENCE,
		instruction.FENCEI: (*CPU).opFENCE,
		instruction.ECALL:  (*CPU).opECALL,
		instruction.EBREAK: (*CPU).opEBREAK,
		instruction.ADDIW:  (*CPU).opADDIW,
		instruction.SLLIW:  (*CPU).opSLLIW,
		instruction.SRLIW:  (*CPU).opSRLIW,
		instruction.SRAIW:  (*CPU).opSRAIW,
		instruction.ADDW:   (*CPU).opADDW,
		instruction.SUBW:   (*CPU).opSUBW,
		instruction.SLLW:   (*CPU).opSLLW,
		instruction.SRLW:   (*CPU).opSRLW,
		instruction.SRAW:   (*CPU).opSRAW,
	}
}

func (cpu *CPU) opADDI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)+immAddr(step))
	return nil
}

func (cpu *CPU) opSLTI(step *stepInfo) error {
	var value uint64
	if cpu.signed(cpu.regs.ReadX(step.inst.Rs1)) < int64(step.inst.Imm) {
		value = 1
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opSLTIU(step *stepInfo) error {
	var value uint64
	if cpu.regs.ReadX(step.inst.Rs1) < cpu.base.Trunc(immAddr(step)) {
		value = 1
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opANDI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)&immAddr(step))
	return nil
}

func (cpu *CPU) opORI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)|immAddr(step))
	return nil
}

func (cpu *CPU) opXORI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)^immAddr(step))
	return nil
}

func (cpu *CPU) opSLLI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)<<uint(step.inst.Imm))
	return nil
}

func (cpu *CPU) opSRLI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)>>uint(step.inst.Imm))
	return nil
}

func (cpu *CPU) opSRAI(step *stepInfo) error {
	value := cpu.signed(cpu.regs.ReadX(step.inst.Rs1)) >> uint(step.inst.Imm)
	cpu.regs.WriteX(step.inst.Rd, uint64(value))
	return nil
}

func (cpu *CPU) opADD(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)+cpu.regs.ReadX(step.inst.Rs2))
	return nil
}

func (cpu *CPU) opSUB(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)-cpu.regs.ReadX(step.inst.Rs2))
	return nil
}

// Shift amount of a register shift: low five bits on RV32, six on RV64.
func (cpu *CPU) shamt(value uint64) uint {
	if cpu.base == arch.RV32I {
		return uint(value & 0x1f)
	}
	return uint(value & 0x3f)
}

func (cpu *CPU) opSLL(step *stepInfo) error {
	shift := cpu.shamt(cpu.regs.ReadX(step.inst.Rs2))
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)<<shift)
	return nil
}

func (cpu *CPU) opSLT(step *stepInfo) error {
	var value uint64
	if cpu.signed(cpu.regs.ReadX(step.inst.Rs1)) < cpu.signed(cpu.regs.ReadX(step.inst.Rs2)) {
		value = 1
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opSLTU(step *stepInfo) error {
	var value uint64
	if cpu.regs.ReadX(step.inst.Rs1) < cpu.regs.ReadX(step.inst.Rs2) {
		value = 1
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opXOR(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)^cpu.regs.ReadX(step.inst.Rs2))
	return nil
}

func (cpu *CPU) opSRL(step *stepInfo) error {
	shift := cpu.shamt(cpu.regs.ReadX(step.inst.Rs2))
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)>>shift)
	return nil
}

func (cpu *CPU) opSRA(step *stepInfo) error {
	shift := cpu.shamt(cpu.regs.ReadX(step.inst.Rs2))
	cpu.regs.WriteX(step.inst.Rd, uint64(cpu.signed(cpu.regs.ReadX(step.inst.Rs1))>>shift))
	return nil
}

func (cpu *CPU) opOR(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)|cpu.regs.ReadX(step.inst.Rs2))
	return nil
}

func (cpu *CPU) opAND(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, cpu.regs.ReadX(step.inst.Rs1)&cpu.regs.ReadX(step.inst.Rs2))
	return nil
}

func (cpu *CPU) opLUI(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, uint64(int64(step.inst.Imm)))
	return nil
}

func (cpu *CPU) opAUIPC(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, step.pc+uint64(int64(step.inst.Imm)))
	return nil
}

func (cpu *CPU) opJAL(step *stepInfo) error {
	link := step.npc
	if err := cpu.jump(step, step.pc+immAddr(step)); err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, link)
	return nil
}

func (cpu *CPU) opJALR(step *stepInfo) error {
	link := step.npc
	target := (cpu.regs.ReadX(step.inst.Rs1) + immAddr(step)) &^ 1
	if err := cpu.jump(step, target); err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, link)
	return nil
}

func (cpu *CPU) opBranch(step *stepInfo) error {
	src1 := cpu.regs.ReadX(step.inst.Rs1)
	src2 := cpu.regs.ReadX(step.inst.Rs2)
	var taken bool
	switch step.inst.Kind {
	case instruction.BEQ:
		taken = src1 == src2
	case instruction.BNE:
		taken = src1 != src2
	case instruction.BLT:
		taken = cpu.signed(src1) < cpu.signed(src2)
	case instruction.BGE:
		taken = cpu.signed(src1) >= cpu.signed(src2)
	case instruction.BLTU:
		taken = src1 < src2
	case instruction.BGEU:
		taken = src1 >= src2
	}
	if !taken {
		return nil
	}
	return cpu.jump(step, step.pc+immAddr(step))
}

func (cpu *CPU) opLB(step *stepInfo) error {
	value, err := cpu.load(step, 1)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, uint64(int64(int8(uint8(value)))))
	return nil
}

func (cpu *CPU) opLH(step *stepInfo) error {
	value, err := cpu.load(step, 2)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, uint64(int64(int16(uint16(value)))))
	return nil
}

func (cpu *CPU) opLW(step *stepInfo) error {
	value, err := cpu.load(step, 4)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, sext32(value))
	return nil
}

func (cpu *CPU) opLBU(step *stepInfo) error {
	value, err := cpu.load(step, 1)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opLHU(step *stepInfo) error {
	value, err := cpu.load(step, 2)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opLWU(step *stepInfo) error {
	value, err := cpu.load(step, 4)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opLD(step *stepInfo) error {
	value, err := cpu.load(step, 8)
	if err != nil {
		return err
	}
	cpu.regs.WriteX(step.inst.Rd, value)
	return nil
}

func (cpu *CPU) opSB(step *stepInfo) error {
	return cpu.store(step, 1, cpu.regs.ReadX(step.inst.Rs2))
}

func (cpu *CPU) opSH(step *stepInfo) error {
	return cpu.store(step, 2, cpu.regs.ReadX(step.inst.Rs2))
}

func (cpu *CPU) opSW(step *stepInfo) error {
	return cpu.store(step, 4, cpu.regs.ReadX(step.inst.Rs2))
}

func (cpu *CPU) opSD(step *stepInfo) error {
	return cpu.store(step, 8, cpu.regs.ReadX(step.inst.Rs2))
}

// FENCE and FENCE.I decode but have nothing to order in a single hart
// simulator with no store buffer or instruction cache.
func (cpu *CPU) opFENCE(_ *stepInfo) error {
	return nil
}

func (cpu *CPU) opECALL(_ *stepInfo) error {
	switch cpu.priv {
	case trap.User:
		return trap.UserEnvCall
	case trap.Supervisor:
		return trap.SupervisorEnvCall
	}
	return trap.MachineEnvCall
}

func (cpu *CPU) opEBREAK(_ *stepInfo) error {
	return trap.Breakpoint
}

func (cpu *CPU) opADDIW(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, sext32(cpu.regs.ReadX(step.inst.Rs1)+immAddr(step)))
	return nil
}

func (cpu *CPU) opSLLIW(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, sext32(cpu.regs.ReadX(step.inst.Rs1)<<uint(step.inst.Imm)))
	return nil
}

func (cpu *CPU) opSRLIW(step *stepInfo) error {
	value := uint32(cpu.regs.ReadX(step.inst.Rs1)) >> uint(step.inst.Imm)
	cpu.regs.WriteX(step.inst.Rd, sext32(uint64(value)))
	return nil
}

func (cpu *CPU) opSRAIW(step *stepInfo) error {
	value := int32(uint32(cpu.regs.ReadX(step.inst.Rs1))) >> uint(step.inst.Imm)
	cpu.regs.WriteX(step.inst.Rd, uint64(int64(value)))
	return nil
}

func (cpu *CPU) opADDW(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, sext32(cpu.regs.ReadX(step.inst.Rs1)+cpu.regs.ReadX(step.inst.Rs2)))
	return nil
}

func (cpu *CPU) opSUBW(step *stepInfo) error {
	cpu.regs.WriteX(step.inst.Rd, sext32(cpu.regs.ReadX(step.inst.Rs1)-cpu.regs.ReadX(step.inst.Rs2)))
	return nil
}

func (cpu *CPU) opSLLW(step *stepInfo) error {
	shift := uint(cpu.regs.ReadX(step.inst.Rs2) & 0x1f)
	cpu.regs.WriteX(step.inst.Rd, sext32(cpu.regs.ReadX(step.inst.Rs1)<<shift))
	return nil
}

func (cpu *CPU) opSRLW(step *stepInfo) error {
	shift := uint(cpu.regs.ReadX(step.inst.Rs2) & 0x1f)
	value := uint32(cpu.regs.ReadX(step.inst.Rs1)) >> shift
	cpu.regs.WriteX(step.inst.Rd, sext32(uint64(value)))
	return nil
}

func (cpu *CPU) opSRAW(step *stepInfo) error {
	shift := uint(cpu.regs.ReadX(step.inst.Rs2) & 0x1f)
	value := int32(uint32(cpu.regs.ReadX(step.inst.Rs1))) >> shift
	cpu.regs.WriteX(step.inst.Rd, uint64(int64(value)))
	return nil
}

// One line register dump for the monitor.
func (cpu *CPU) RegisterLine(row int) string {
	line := ""
	for i := row * 4; i < (row+1)*4 && i < 32; i++ {
		line += fmt.Sprintf("x%-2d %016x ", i, cpu.regs.ReadX(i))
	}
	return line
}
