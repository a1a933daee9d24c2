/*
   RV - Instruction decoder.

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

package instruction

import (
	"github.com/rcornwell/RV/emu/arch"
)

// Instruction opcodes, the low seven bits of the word.
const (
	opLoad   = 0b0000011
	opFence  = 0b0001111
	opALUI   = 0b0010011
	opAUIPC  = 0b0010111
	opALUIW  = 0b0011011
	opStore  = 0b0100011
	opALU    = 0b0110011
	opLUI    = 0b0110111
	opALUW   = 0b0111011
	opBranch = 0b1100011
	opJALR   = 0b1100111
	opJAL    = 0b1101111
	opSystem = 0b1110011
)

// Opcode to encoding variant. Dense 128 entry table; the low two opcode
// bits of a 32 bit instruction are always 11, so most slots stay none.
var typeTable = [128]Type{
	opLoad:   TypeI,
	opFence:  TypeI,
	opALUI:   TypeI,
	opAUIPC:  TypeU,
	opALUIW:  TypeI,
	opStore:  TypeS,
	opALU:    TypeR,
	opLUI:    TypeU,
	opALUW:   TypeR,
	opBranch: TypeB,
	opJALR:   TypeI,
	opJAL:    TypeJ,
	opSystem: TypeI,
}

// (opcode, funct3) to mnemonic for the I variant, shifts and system
// handled separately.
var iKindTable = map[uint32]Kind{
	opLoad<<3 | 0b000: LB,
	opLoad<<3 | 0b001: LH,
	opLoad<<3 | 0b010: LW,
	opLoad<<3 | 0b011: LD,
	opLoad<<3 | 0b100: LBU,
	opLoad<<3 | 0b101: LHU,
	opLoad<<3 | 0b110: LWU,
	opALUI<<3 | 0b000: ADDI,
	opALUI<<3 | 0b010: SLTI,
	opALUI<<3 | 0b011: SLTIU,
	opALUI<<3 | 0b100: XORI,
	opALUI<<3 | 0b110: ORI,
	opALUI<<3 | 0b111: ANDI,
	opJALR<<3 | 0b000: JALR,
	opFence<<3 | 0b000: FENCE,
	opFence<<3 | 0b001: FENCEI,
}

// Mnemonics only present when the base supports RV64I.
var rv64Kind = map[Kind]bool{
	LD:  true,
	LWU: true,
	SD:  true,
}

// (funct7, funct3) to mnemonic for opcode 0110011.
var rKindTable = map[uint32]Kind{
	0b0000000<<3 | 0b000: ADD,
	0b0100000<<3 | 0b000: SUB,
	0b0000000<<3 | 0b001: SLL,
	0b0000000<<3 | 0b010: SLT,
	0b0000000<<3 | 0b011: SLTU,
	0b0000000<<3 | 0b100: XOR,
	0b0000000<<3 | 0b101: SRL,
	0b0100000<<3 | 0b101: SRA,
	0b0000000<<3 | 0b110: OR,
	0b0000000<<3 | 0b111: AND,
}

// (funct7, funct3) to mnemonic for opcode 0111011, RV64 only.
var rwKindTable = map[uint32]Kind{
	0b0000000<<3 | 0b000: ADDW,
	0b0100000<<3 | 0b000: SUBW,
	0b0000000<<3 | 0b001: SLLW,
	0b0000000<<3 | 0b101: SRLW,
	0b0100000<<3 | 0b101: SRAW,
}

// funct3 to mnemonic for stores.
var sKindTable = map[uint32]Kind{
	0b000: SB,
	0b001: SH,
	0b010: SW,
	0b011: SD,
}

// funct3 to mnemonic for branches.
var bKindTable = map[uint32]Kind{
	0b000: BEQ,
	0b001: BNE,
	0b100: BLT,
	0b101: BGE,
	0b110: BLTU,
	0b111: BGEU,
}

// Sign extend the low bits of value as a bits wide quantity.
func signExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

// Decode a raw instruction word for the given base. Returns nil when
// the word is not a legal encoding of a supported instruction; the
// executor turns that into an illegal instruction trap. Decoding is
// pure, no machine state is consulted beyond the base.
func Decode(raw uint32, base arch.Base) *Instruction {
	opcode := raw & 0x7f
	ty := typeTable[opcode]

	inst := Instruction{Type: ty, Raw: raw}
	switch ty {
	case TypeR:
		inst.Rd = int((raw >> 7) & 0x1f)
		inst.Rs1 = int((raw >> 15) & 0x1f)
		inst.Rs2 = int((raw >> 20) & 0x1f)
		funct3 := (raw >> 12) & 0x7
		funct7 := (raw >> 25) & 0x7f
		var kind Kind
		var ok bool
		if opcode == opALUW {
			if !base.SupportsRV64() {
				return nil
			}
			kind, ok = rwKindTable[funct7<<3|funct3]
		} else {
			kind, ok = rKindTable[funct7<<3|funct3]
		}
		if !ok {
			return nil
		}
		inst.Kind = kind

	case TypeI:
		return decodeI(raw, opcode, base)

	case TypeS:
		inst.Rs1 = int((raw >> 15) & 0x1f)
		inst.Rs2 = int((raw >> 20) & 0x1f)
		funct3 := (raw >> 12) & 0x7
		kind, ok := sKindTable[funct3]
		if !ok {
			return nil
		}
		if rv64Kind[kind] && !base.SupportsRV64() {
			return nil
		}
		inst.Kind = kind
		imm := (((raw >> 25) & 0x7f) << 5) | ((raw >> 7) & 0x1f)
		inst.Imm = signExtend(imm, 12)

	case TypeB:
		inst.Rs1 = int((raw >> 15) & 0x1f)
		inst.Rs2 = int((raw >> 20) & 0x1f)
		funct3 := (raw >> 12) & 0x7
		kind, ok := bKindTable[funct3]
		if !ok {
			return nil
		}
		inst.Kind = kind
		imm := (((raw >> 31) & 0x1) << 12) |
			(((raw >> 25) & 0x3f) << 5) |
			(((raw >> 8) & 0xf) << 1) |
			(((raw >> 7) & 0x1) << 11)
		inst.Imm = signExtend(imm, 13)

	case TypeU:
		inst.Rd = int((raw >> 7) & 0x1f)
		if opcode == opLUI {
			inst.Kind = LUI
		} else {
			inst.Kind = AUIPC
		}
		inst.Imm = int32(raw & 0xfffff000)

	case TypeJ:
		inst.Rd = int((raw >> 7) & 0x1f)
		inst.Kind = JAL
		imm := (((raw >> 31) & 0x1) << 20) |
			(((raw >> 21) & 0x3ff) << 1) |
			(((raw >> 20) & 0x1) << 11) |
			(((raw >> 12) & 0xff) << 12)
		inst.Imm = signExtend(imm, 21)

	default:
		return nil
	}
	return &inst
}

// Decode the I variant. The system opcode, the W forms and shift
// immediates all bend the plain 12 bit immediate rule, in that priority.
func decodeI(raw uint32, opcode uint32, base arch.Base) *Instruction {
	inst := Instruction{
		Type: TypeI,
		Rd:   int((raw >> 7) & 0x1f),
		Rs1:  int((raw >> 15) & 0x1f),
		Raw:  raw,
	}
	funct3 := (raw >> 12) & 0x7
	imm := (raw >> 20) & 0xfff

	switch {
	case opcode == opSystem:
		// The immediate field separates ECALL from EBREAK.
		if imm == 0 {
			inst.Kind = ECALL
		} else {
			inst.Kind = EBREAK
		}
		inst.Imm = int32(imm)

	case opcode == opALUIW:
		if !base.SupportsRV64() {
			return nil
		}
		funct7 := (raw >> 25) & 0x7f
		switch funct3 {
		case 0b000:
			inst.Kind = ADDIW
			inst.Imm = signExtend(imm, 12)
		case 0b001:
			if funct7 != 0 {
				return nil
			}
			inst.Kind = SLLIW
			inst.Imm = int32(imm & 0x1f)
		case 0b101:
			switch funct7 {
			case 0b0000000:
				inst.Kind = SRLIW
			case 0b0100000:
				inst.Kind = SRAIW
			default:
				return nil
			}
			inst.Imm = int32(imm & 0x1f)
		default:
			return nil
		}

	case opcode == opALUI && (funct3 == 0b001 || funct3 == 0b101):
		// Shift immediates. The shift amount uses the low six bits on
		// RV64 and the low five on RV32; the bits above it pick the
		// arithmetic form of the right shift.
		var shamt, top uint32
		if base.SupportsRV64() {
			shamt = imm & 0x3f
			top = (imm >> 6) & 0x3f
		} else {
			shamt = imm & 0x1f
			top = imm >> 5
		}
		switch {
		case funct3 == 0b001:
			inst.Kind = SLLI
		case top == 0:
			inst.Kind = SRLI
		default:
			inst.Kind = SRAI
		}
		inst.Imm = int32(shamt)

	default:
		kind, ok := iKindTable[opcode<<3|funct3]
		if !ok {
			return nil
		}
		if rv64Kind[kind] && !base.SupportsRV64() {
			return nil
		}
		inst.Kind = kind
		inst.Imm = signExtend(imm, 12)
	}
	return &inst
}
