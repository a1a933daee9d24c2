/*
   RV - Monitor commands.

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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	core "github.com/rcornwell/RV/emu/core"
	"github.com/rcornwell/RV/emu/loader"
	"github.com/rcornwell/RV/emu/mmu"
	reg "github.com/rcornwell/RV/emu/register"
	"github.com/rcornwell/RV/emu/uart"
	hex "github.com/rcornwell/RV/util/hex"
)

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{Name: "boot", Min: 1, Help: "boot <file>          load a RISC-V ELF and set the PC", Process: boot},
		{Name: "start", Min: 3, Help: "start                run the hart", Process: start},
		{Name: "stop", Min: 3, Help: "stop                 pause the hart", Process: stop},
		{Name: "continue", Min: 1, Help: "continue             run the hart", Process: start},
		{Name: "step", Min: 2, Help: "step [n]             execute n instructions", Process: step},
		{Name: "examine", Min: 1, Help: "examine <addr> [len] dump physical memory", Process: examine},
		{Name: "deposit", Min: 1, Help: "deposit <addr> <b>.. write bytes to physical memory", Process: deposit},
		{Name: "registers", Min: 1, Help: "registers            dump integer registers", Process: registers},
		{Name: "csr", Min: 2, Help: "csr <name|num>       read a CSR", Process: csr},
		{Name: "translate", Min: 2, Help: "translate <va> [rwx] run an address through the MMU", Process: translate},
		{Name: "send", Min: 3, Help: "send <text>          queue console input", Process: send},
		{Name: "log", Min: 2, Help: "log <option>         enable a module debug option", Process: logCmd},
		{Name: "show", Min: 2, Help: "show                 machine summary", Process: show},
		{Name: "help", Min: 1, Help: "help                 this text", Process: help},
		{Name: "quit", Min: 1, Help: "quit                 leave the simulator", Process: quit},
	}
}

// CSRs the monitor knows by name.
var csrNames = map[string]int{
	"sstatus": reg.SSTATUS,
	"stvec":   reg.STVEC,
	"sepc":    reg.SEPC,
	"scause":  reg.SCAUSE,
	"stval":   reg.STVAL,
	"satp":    reg.SATP,
	"mstatus": reg.MSTATUS,
	"misa":    reg.MISA,
	"medeleg": reg.MEDELEG,
	"mideleg": reg.MIDELEG,
	"mie":     reg.MIE,
	"mtvec":   reg.MTVEC,
	"mepc":    reg.MEPC,
	"mcause":  reg.MCAUSE,
	"mtval":   reg.MTVAL,
	"mip":     reg.MIP,
}

// Load an ELF image and point the hart at its entry.
func boot(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Boot")
	fileName := line.getWord()
	if fileName == "" {
		return false, errors.New("boot needs a file name")
	}
	entry, err := loader.Load(fileName, core.CPU().Mem())
	if err != nil {
		return false, err
	}
	core.CPU().Regs().SetPC(entry)
	fmt.Printf("Loaded %s entry %x\n", fileName, entry)
	return false, nil
}

func start(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.Start})
	return false, nil
}

func stop(_ *cmdLine, c *core.Core) (bool, error) {
	c.Send(core.Packet{Msg: core.Stop})
	return false, nil
}

func step(line *cmdLine, c *core.Core) (bool, error) {
	count, err := line.getNumber(1)
	if err != nil {
		return false, err
	}
	c.Send(core.Packet{Msg: core.Step, Count: count})
	return false, nil
}

// Dump physical memory, sixteen bytes a line with characters alongside.
func examine(line *cmdLine, core *core.Core) (bool, error) {
	addr, err := line.getHex()
	if err != nil {
		return false, err
	}
	length, err := line.getNumber(64)
	if err != nil {
		return false, err
	}
	mem := core.CPU().Mem()
	nibbles := core.CPU().Base().XLEN() / 4
	for length > 0 {
		row := make([]uint8, 0, 16)
		for i := 0; i < 16 && length > 0; i++ {
			row = append(row, mem.ReadByte(addr+uint64(i)))
			length--
		}
		var str strings.Builder
		hex.FormatAddr(&str, nibbles, addr)
		str.WriteString(": ")
		hex.FormatBytes(&str, true, row)
		hex.FormatChars(&str, row)
		fmt.Println(str.String())
		addr += 16
	}
	return false, nil
}

// Write bytes to physical memory.
func deposit(line *cmdLine, core *core.Core) (bool, error) {
	addr, err := line.getHex()
	if err != nil {
		return false, err
	}
	mem := core.CPU().Mem()
	count := 0
	for line.pos < len(line.words) {
		value, err := line.getHex()
		if err != nil {
			return false, err
		}
		if value > 0xff {
			return false, errors.New("deposit writes bytes")
		}
		mem.WriteByte(addr, uint8(value))
		addr++
		count++
	}
	if count == 0 {
		return false, errors.New("deposit needs at least one byte")
	}
	return false, nil
}

// Dump the integer registers, PC and privilege mode.
func registers(_ *cmdLine, core *core.Core) (bool, error) {
	cpu := core.CPU()
	for row := range 8 {
		fmt.Println(cpu.RegisterLine(row))
	}
	fmt.Printf("pc  %016x  priv %s\n", cpu.Regs().PC(), cpu.Priv())
	return false, nil
}

// Read one CSR by name or hex number.
func csr(line *cmdLine, core *core.Core) (bool, error) {
	word := line.getWord()
	if word == "" {
		return false, errors.New("csr needs a name or number")
	}
	num, ok := csrNames[strings.ToLower(word)]
	if !ok {
		value, err := strconv.ParseUint(strings.TrimPrefix(word, "0x"), 16, 64)
		if err != nil || value >= reg.CsrCount {
			return false, errors.New("unknown CSR: " + word)
		}
		num = int(value)
	}
	fmt.Printf("csr %03x = %016x\n", num, core.CPU().Regs().ReadCSR(num))
	return false, nil
}

// Run a virtual address through the MMU without touching the hart.
func translate(line *cmdLine, core *core.Core) (bool, error) {
	va, err := line.getHex()
	if err != nil {
		return false, err
	}
	access := mmu.AccessRead
	switch strings.ToLower(line.getWord()) {
	case "", "r":
	case "w":
		access = mmu.AccessWrite
	case "x":
		access = mmu.AccessExecute
	default:
		return false, errors.New("access is r, w or x")
	}
	pa, err := core.CPU().MMU().Translate(va, access, core.CPU().Priv())
	if err != nil {
		fmt.Printf("%016x -> %s\n", va, err)
		return false, nil
	}
	fmt.Printf("%016x -> %016x\n", va, pa)
	return false, nil
}

// Queue text as console input.
func send(line *cmdLine, core *core.Core) (bool, error) {
	text := line.getRest()
	for _, device := range core.Devices() {
		if console, ok := device.(*uart.Uart); ok {
			console.Receive([]byte(text + "\r"))
			return false, nil
		}
	}
	return false, errors.New("no console configured")
}

// Enable a debug option on whichever module recognizes it.
func logCmd(line *cmdLine, core *core.Core) (bool, error) {
	option := strings.ToUpper(line.getWord())
	if option == "" {
		return false, errors.New("log needs an option")
	}
	if err := core.CPU().Debug(option); err == nil {
		return false, nil
	}
	for _, device := range core.Devices() {
		if device.Debug(option) == nil {
			return false, nil
		}
	}
	return false, errors.New("debug option invalid: " + option)
}

// Machine summary.
func show(_ *cmdLine, core *core.Core) (bool, error) {
	cpu := core.CPU()
	fmt.Printf("base    %s\n", cpu.Base())
	fmt.Printf("memory  %dK\n", cpu.Mem().Size()/1024)
	fmt.Printf("pc      %016x\n", cpu.Regs().PC())
	fmt.Printf("priv    %s\n", cpu.Priv())
	fmt.Printf("running %v\n", core.Running())
	return false, nil
}

func help(_ *cmdLine, _ *core.Core) (bool, error) {
	for i := range cmdList {
		fmt.Println(cmdList[i].Help)
	}
	return false, nil
}

func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
