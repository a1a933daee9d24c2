/*
   RV - Instruction model.

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

import "fmt"

/*
   RISC-V encodes all 32 bit instructions in one of six layouts. The low
   seven bits hold the opcode, which selects the layout; the remaining
   fields are register numbers, function codes and immediate bits.

    R format:   (register to register).

      +---------+-----+-----+--------+----+---------+
      | funct7  | rs2 | rs1 | funct3 | rd | opcode  |
      +---------+-----+-----+--------+----+---------+

    I format:   (immediate to register: ALU, loads, JALR, system).

      +---------------+-----+--------+----+---------+
      |   imm[11:0]   | rs1 | funct3 | rd | opcode  |
      +---------------+-----+--------+----+---------+

    S format:   (register to memory).

      +---------+-----+-----+--------+----+---------+
      |imm[11:5]| rs2 | rs1 | funct3 |imm | opcode  |
      +---------+-----+-----+--------+----+---------+

    B format:   like S, immediate bits interleaved, in multiples of 2.

    U format:   (upper immediate: LUI, AUIPC).

      +------------------------------+----+---------+
      |          imm[31:12]          | rd | opcode  |
      +------------------------------+----+---------+

    J format:   like U, immediate bits interleaved, in multiples of 2.
*/

// Encoding variant of an instruction.
type Type int

const (
	TypeNone Type = iota
	TypeR
	TypeI
	TypeS
	TypeB
	TypeU
	TypeJ
)

// Kind is the mnemonic of a decoded instruction.
type Kind int

const (
	ADDI Kind = iota
	SLTI
	SLTIU
	ANDI
	ORI
	XORI
	SLLI
	SRLI
	SRAI
	ADD
	SLT
	SLTU
	AND
	OR
	XOR
	SLL
	SUB
	SRL
	SRA
	LUI
	AUIPC
	JAL
	JALR
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU
	LW
	LH
	LB
	LHU
	LBU
	SW
	SH
	SB
	FENCE
	FENCEI
	ECALL
	EBREAK
	LWU
	LD
	SD
	ADDIW
	SLLIW
	SRLIW
	SRAIW
	ADDW
	SUBW
	SLLW
	SRLW
	SRAW
)

var kindName = map[Kind]string{
	ADDI:   "addi",
	SLTI:   "slti",
	SLTIU:  "sltiu",
	ANDI:   "andi",
	ORI:    "ori",
	XORI:   "xori",
	SLLI:   "slli",
	SRLI:   "srli",
	SRAI:   "srai",
	ADD:    "add",
	SLT:    "slt",
	SLTU:   "sltu",
	AND:    "and",
	OR:     "or",
	XOR:    "xor",
	SLL:    "sll",
	SUB:    "sub",
	SRL:    "srl",
	SRA:    "sra",
	LUI:    "lui",
	AUIPC:  "auipc",
	JAL:    "jal",
	JALR:   "jalr",
	BEQ:    "beq",
	BNE:    "bne",
	BLT:    "blt",
	BGE:    "bge",
	BLTU:   "bltu",
	BGEU:   "bgeu",
	LW:     "lw",
	LH:     "lh",
	LB:     "lb",
	LHU:    "lhu",
	LBU:    "lbu",
	SW:     "sw",
	SH:     "sh",
	SB:     "sb",
	FENCE:  "fence",
	FENCEI: "fence_i",
	ECALL:  "ecall",
	EBREAK: "ebreak",
	LWU:    "lwu",
	LD:     "ld",
	SD:     "sd",
	ADDIW:  "addiw",
	SLLIW:  "slliw",
	SRLIW:  "srliw",
	SRAIW:  "sraiw",
	ADDW:   "addw",
	SUBW:   "subw",
	SLLW:   "sllw",
	SRLW:   "srlw",
	SRAW:   "sraw",
}

func (kind Kind) String() string {
	return kindName[kind]
}

// A decoded instruction: the mnemonic, the encoding variant and the
// operand fields that variant carries. Immediates are sign extended
// into Imm; the multiply by two of the B and J layouts is already
// materialized. Raw keeps the undecoded word.
type Instruction struct {
	Kind Kind
	Type Type
	Rd   int
	Rs1  int
	Rs2  int
	Imm  int32
	Raw  uint32
}

// Render an instruction the way the monitor prints it. Immediates print
// as 32 bit hex so negative values show in two's complement.
func (inst *Instruction) String() string {
	if inst.Kind == ECALL || inst.Kind == EBREAK {
		return inst.Kind.String()
	}
	switch inst.Type {
	case TypeR:
		return fmt.Sprintf("%s r%d r%d r%d", inst.Kind, inst.Rd, inst.Rs1, inst.Rs2)
	case TypeI:
		return fmt.Sprintf("%s r%d r%d 0x%x", inst.Kind, inst.Rd, inst.Rs1, uint32(inst.Imm))
	case TypeS, TypeB:
		return fmt.Sprintf("%s 0x%x r%d r%d", inst.Kind, uint32(inst.Imm), inst.Rs1, inst.Rs2)
	case TypeU, TypeJ:
		return fmt.Sprintf("%s r%d 0x%x", inst.Kind, inst.Rd, uint32(inst.Imm))
	}
	return inst.Kind.String()
}
