/*
RV - Memory mapped device interface.

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
package device

// Interface for devices mapped into the physical address space.
// Devices are registered with the memory and claim addresses through
// MapsAt; all device traffic is byte wide, wider accesses are split by
// the memory into byte reads and writes.
type Device interface {
	MapsAt(addr uint64) bool        // Does device service this address.
	ReadByte(addr uint64) uint8     // Read one byte from device register.
	WriteByte(addr uint64, v uint8) // Write one byte to device register.
	Shutdown()                      // Shutdown device, close any open files.
	Debug(option string) error      // Enable debug option.
}
