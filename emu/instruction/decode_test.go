package instruction

/*
 * RV  - Decoder test cases
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

// Known encodings and their rendering on an RV64I base.
func TestDecodeRV64(t *testing.T) {
	tests := []struct {
		raw  uint32
		text string
	}{
		{0x0B040413, "addi r8 r8 0xb0"},
		{0xC00B4B13, "xori r22 r22 0xfffffc00"},
		{0x01093403, "ld r8 r18 0x10"},
		{0x00000073, "ecall"},
		{0x00100073, "ebreak"},
		{0x00269693, "slli r13 r13 0x2"},
		{0x43F55513, "srai r10 r10 0x3f"},
		{0x00011537, "lui r10 0x11000"},
		{0x00B70723, "sb 0xe r14 r11"},
		{0x040B8463, "beq 0x48 r23 r0"},
		{0x00C000EF, "jal r1 0xc"},
		{0x0020873B, "addw r14 r1 r2"},
		{0x00008067, "jalr r0 r1 0x0"},
		{0x00500093, "addi r1 r0 0x5"},
		{0xFFE08093, "addi r1 r1 0xfffffffe"},
		{0x00112823, "sw 0x10 r2 r1"},
		{0x01012183, "lw r3 r2 0x10"},
		{0x0000000F, "fence r0 r0 0x0"},
	}
	for _, test := range tests {
		inst := Decode(test.raw, arch.RV64I)
		if inst == nil {
			t.Errorf("Decode %08x got: nil expected: %s", test.raw, test.text)
			continue
		}
		if inst.String() != test.text {
			t.Errorf("Decode %08x got: %s expected: %s", test.raw, inst, test.text)
		}
		if inst.Raw != test.raw {
			t.Errorf("Decode %08x raw not kept got: %08x", test.raw, inst.Raw)
		}
	}
}

// Opcodes with no table entry decode to nothing.
func TestDecodeInvalid(t *testing.T) {
	for opcode := uint32(0); opcode < 128; opcode++ {
		if typeTable[opcode] != TypeNone {
			continue
		}
		raw := 0x00000000 | opcode
		if inst := Decode(raw, arch.RV64I); inst != nil {
			t.Errorf("Decode %08x got: %s expected: nil", raw, inst)
		}
	}

	// Known layouts with unknown function codes.
	bad := []uint32{
		0x02000033, // opcode 0110011, funct7 0000001 is the M extension
		0x40001033, // sll with the subtract bit set
		0x00007003, // load funct3 111
		0x00007023, // store funct3 111
		0x00002063, // branch funct3 010
		0x00001067, // jalr funct3 001
		0x0000701B, // alu imm word funct3 111
	}
	for _, raw := range bad {
		if inst := Decode(raw, arch.RV64I); inst != nil {
			t.Errorf("Decode %08x got: %s expected: nil", raw, inst)
		}
	}
}

// The W forms and the 64 bit loads and stores only exist on RV64I.
func TestDecodeRV32Rejects(t *testing.T) {
	words := []uint32{
		0x0020873B, // addw
		0x4020873B, // subw
		0x0020973B, // sllw
		0x0020D73B, // srlw
		0x4020D73B, // sraw
		0x01093403, // ld
		0x0109E403, // lwu
		0x00B73723, // sd
		0x0010809B, // addiw
		0x0010909B, // slliw
		0x0010D09B, // srliw
		0x4010D09B, // sraiw
	}
	for _, raw := range words {
		if inst := Decode(raw, arch.RV32I); inst != nil {
			t.Errorf("Decode %08x on RV32 got: %s expected: nil", raw, inst)
		}
		if inst := Decode(raw, arch.RV64I); inst == nil {
			t.Errorf("Decode %08x on RV64 got: nil", raw)
		}
	}
}

// The shift amount field narrows to five bits on RV32.
func TestDecodeShifts(t *testing.T) {
	// srai r10 r10 with a six bit amount.
	inst := Decode(0x43F55513, arch.RV32I)
	if inst == nil {
		t.Fatal("Decode srai on RV32 got: nil")
	}
	if inst.Kind != SRAI || inst.Imm != 0x1f {
		t.Errorf("Decode srai on RV32 got: %s %x expected: srai 1f", inst.Kind, inst.Imm)
	}

	inst = Decode(0x43F55513, arch.RV64I)
	if inst.Kind != SRAI || inst.Imm != 0x3f {
		t.Errorf("Decode srai on RV64 got: %s %x expected: srai 3f", inst.Kind, inst.Imm)
	}

	// srli has the top bits clear.
	inst = Decode(0x0020D713, arch.RV64I)
	if inst == nil || inst.Kind != SRLI || inst.Imm != 2 {
		t.Errorf("Decode srli got: %v", inst)
	}
}

// Branch and jump immediates materialize the multiply by two.
func TestDecodeImmediates(t *testing.T) {
	// beq with a negative displacement: beq r0 r0 -4.
	inst := Decode(0xFE000EE3, arch.RV64I)
	if inst == nil || inst.Kind != BEQ {
		t.Fatalf("Decode beq got: %v", inst)
	}
	if inst.Imm != -4 {
		t.Errorf("Decode beq imm got: %d expected: -4", inst.Imm)
	}

	// jal with a negative displacement: jal r0 -16.
	inst = Decode(0xFF1FF06F, arch.RV64I)
	if inst == nil || inst.Kind != JAL {
		t.Fatalf("Decode jal got: %v", inst)
	}
	if inst.Imm != -16 {
		t.Errorf("Decode jal imm got: %d expected: -16", inst.Imm)
	}

	// Store with a negative offset: sw -4(r2), r1.
	inst = Decode(0xFE112E23, arch.RV64I)
	if inst == nil || inst.Kind != SW {
		t.Fatalf("Decode sw got: %v", inst)
	}
	if inst.Imm != -4 {
		t.Errorf("Decode sw imm got: %d expected: -4", inst.Imm)
	}
}

// Decoding is pure, the same word always gives the same record.
func TestDecodePure(t *testing.T) {
	first := Decode(0x0B040413, arch.RV64I)
	second := Decode(0x0B040413, arch.RV64I)
	if *first != *second {
		t.Errorf("Decode not pure got: %v and %v", first, second)
	}
}
