package memory

/*
 * RV  - Low level memory
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
	dev "github.com/rcornwell/RV/emu/device"
)

// Default memory size, 16MB.
const DefaultSize uint64 = 16 * 1024 * 1024

// Physical memory of one hart: a flat byte buffer plus the registered
// memory mapped devices. The address space is circular, raw accesses
// reduce the address modulo the memory size. Devices are checked in
// registration order before the buffer, against the unreduced address.
// All data is little endian. Alignment is not policed here; misaligned
// access traps are raised above this layer from the architectural
// access size.
type Memory struct {
	mem     []byte
	size    uint64
	devices []dev.Device
}

// Allocate a zeroed memory of size bytes. Size zero selects the default.
func New(size uint64) *Memory {
	if size == 0 {
		size = DefaultSize
	}
	return &Memory{mem: make([]byte, size), size: size}
}

// Return size of memory in bytes.
func (mem *Memory) Size() uint64 {
	return mem.size
}

// Append a device to the device list. First registered device claiming
// an address wins. Registration is append only for the hart's lifetime.
func (mem *Memory) Register(device dev.Device) {
	mem.devices = append(mem.devices, device)
}

// Shut down all registered devices.
func (mem *Memory) Shutdown() {
	for _, device := range mem.devices {
		device.Shutdown()
	}
}

// Check if address is inside memory; true when it is in range.
func (mem *Memory) CheckAddr(addr uint64) bool {
	return addr < mem.size
}

// Get a byte from a device or memory.
func (mem *Memory) ReadByte(addr uint64) uint8 {
	for _, device := range mem.devices {
		if device.MapsAt(addr) {
			return device.ReadByte(addr)
		}
	}
	return mem.mem[addr%mem.size]
}

// Put a byte to a device or memory.
func (mem *Memory) WriteByte(addr uint64, value uint8) {
	for _, device := range mem.devices {
		if device.MapsAt(addr) {
			device.WriteByte(addr, value)
			return
		}
	}
	mem.mem[addr%mem.size] = value
}

// Get a half word from memory.
func (mem *Memory) ReadHalf(addr uint64) uint16 {
	var value uint16
	for i := uint64(0); i < 2; i++ {
		value |= uint16(mem.ReadByte(addr+i)) << (8 * i)
	}
	return value
}

// Put a half word to memory.
func (mem *Memory) WriteHalf(addr uint64, value uint16) {
	for i := uint64(0); i < 2; i++ {
		mem.WriteByte(addr+i, uint8(value>>(8*i)))
	}
}

// Get a word from memory.
func (mem *Memory) ReadWord(addr uint64) uint32 {
	var value uint32
	for i := uint64(0); i < 4; i++ {
		value |= uint32(mem.ReadByte(addr+i)) << (8 * i)
	}
	return value
}

// Put a word to memory.
func (mem *Memory) WriteWord(addr uint64, value uint32) {
	for i := uint64(0); i < 4; i++ {
		mem.WriteByte(addr+i, uint8(value>>(8*i)))
	}
}

// Get a double word from memory.
func (mem *Memory) ReadDouble(addr uint64) uint64 {
	var value uint64
	for i := uint64(0); i < 8; i++ {
		value |= uint64(mem.ReadByte(addr+i)) << (8 * i)
	}
	return value
}

// Put a double word to memory.
func (mem *Memory) WriteDouble(addr uint64, value uint64) {
	for i := uint64(0); i < 8; i++ {
		mem.WriteByte(addr+i, uint8(value>>(8*i)))
	}
}

// Get a word from memory, with range check. Used by the page table
// walker, which must see a fault rather than a wrapped address.
func (mem *Memory) GetWord(addr uint64) (value uint32, error bool) {
	if addr+4 > mem.size {
		return 0, true
	}
	for i := uint64(0); i < 4; i++ {
		value |= uint32(mem.mem[addr+i]) << (8 * i)
	}
	return value, false
}

// Put a word to memory, with range check.
func (mem *Memory) PutWord(addr uint64, value uint32) bool {
	if addr+4 > mem.size {
		return true
	}
	for i := uint64(0); i < 4; i++ {
		mem.mem[addr+i] = uint8(value >> (8 * i))
	}
	return false
}

// Get a double word from memory, with range check.
func (mem *Memory) GetDouble(addr uint64) (value uint64, error bool) {
	if addr+8 > mem.size {
		return 0, true
	}
	for i := uint64(0); i < 8; i++ {
		value |= uint64(mem.mem[addr+i]) << (8 * i)
	}
	return value, false
}

// Put a double word to memory, with range check.
func (mem *Memory) PutDouble(addr uint64, value uint64) bool {
	if addr+8 > mem.size {
		return true
	}
	for i := uint64(0); i < 8; i++ {
		mem.mem[addr+i] = uint8(value >> (8 * i))
	}
	return false
}

// Copy a program image into memory, with range check. Devices are not
// consulted; images load into RAM only.
func (mem *Memory) PutBytes(addr uint64, data []byte) bool {
	if addr+uint64(len(data)) > mem.size {
		return true
	}
	copy(mem.mem[addr:], data)
	return false
}
