package arch

/*
 * RV  - Base selection test cases
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

import "testing"

func TestBase(t *testing.T) {
	if RV32I.XLEN() != 32 || RV64I.XLEN() != 64 {
		t.Errorf("XLEN got: %d,%d expected: 32,64", RV32I.XLEN(), RV64I.XLEN())
	}
	if RV32I.Bytes() != 4 || RV64I.Bytes() != 8 {
		t.Errorf("Bytes got: %d,%d expected: 4,8", RV32I.Bytes(), RV64I.Bytes())
	}
	if RV32I.SupportsRV64() || !RV64I.SupportsRV64() {
		t.Error("SupportsRV64 wrong")
	}
}

// Address arithmetic wraps at the width of the base.
func TestTrunc(t *testing.T) {
	if r := RV32I.Trunc(0x100000002); r != 2 {
		t.Errorf("Trunc RV32 got: %x expected: 2", r)
	}
	if r := RV64I.Trunc(0xdeadbeefcafef00d); r != 0xdeadbeefcafef00d {
		t.Errorf("Trunc RV64 got: %x expected: %x", r, uint64(0xdeadbeefcafef00d))
	}
	if r := RV32I.Trunc(0xfffffffc + 8); r != 4 {
		t.Errorf("Trunc RV32 wrap got: %x expected: 4", r)
	}
}
