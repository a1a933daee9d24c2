/*
   RV - ELF program loader.

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

package loader

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"

	mem "github.com/rcornwell/RV/emu/memory"
)

// Load a RISC-V ELF image into physical memory and return its entry
// point. Only RISC-V files are accepted; both ELF classes are, the base
// of the configured machine decides whether the code can run.
func Load(fileName string, memory *mem.Memory) (uint64, error) {
	file, err := elf.Open(fileName)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if file.Machine != elf.EM_RISCV {
		return 0, errors.New("only RISC-V files are supported")
	}

	for _, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := io.ReadFull(prog.Open(), data); err != nil {
			return 0, fmt.Errorf("segment at %x: %w", prog.Paddr, err)
		}
		if memory.PutBytes(prog.Paddr, data) {
			return 0, fmt.Errorf("segment at %x does not fit in memory", prog.Paddr)
		}
		// Zero fill past the file data.
		for addr := prog.Paddr + prog.Filesz; addr < prog.Paddr+prog.Memsz; addr++ {
			memory.WriteByte(addr, 0)
		}
	}
	return file.Entry, nil
}
