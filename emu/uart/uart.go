/*
 * RV - Console UART device
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

package uart

import (
	"errors"
	"io"
	"os"

	config "github.com/rcornwell/RV/config/configparser"
	"github.com/rcornwell/RV/emu/event"
	"github.com/rcornwell/RV/util/debug"
)

// Register offsets inside the device window.
const (
	regData   uint64 = 0 // Transmit on write, receive on read
	regStatus uint64 = 5 // Line status

	windowSize uint64 = 8

	statusRxReady uint8 = 0x01 // Receive byte waiting
	statusTxEmpty uint8 = 0x60 // Transmitter idle

	// Simulated cycles to shift one character out.
	txDelay = 64
)

const (
	// Debug options.
	debugData = 1 << iota
)

var debugOption = map[string]int{
	"DATA": debugData, // Trace characters through the device.
}

// A console UART mapped at a fixed window of the physical address
// space. Transmitted bytes drain to the host terminal after a short
// simulated delay, the way a real part shifts bits out; received bytes
// are queued by the hosting process.
type Uart struct {
	addr     uint64 // Base address of register window
	out      io.Writer
	txBuf    []byte // Bytes waiting on the shift register
	rxBuf    []byte // Bytes waiting to be read
	debugMsk int
}

// Create a console UART at the given base address.
func New(addr uint64) *Uart {
	return &Uart{addr: addr, out: os.Stdout}
}

// register a console device on initialize.
func init() {
	config.RegisterModel("CONSOLE", create)
}

// Create a console from a configuration line.
func create(addr uint64, options []config.Option) error {
	if len(options) != 0 {
		return errors.New("CONSOLE takes no options")
	}
	config.AddDevice(New(addr))
	return nil
}

// Does device service this address.
func (u *Uart) MapsAt(addr uint64) bool {
	return addr >= u.addr && addr < u.addr+windowSize
}

// Read one byte from a device register.
func (u *Uart) ReadByte(addr uint64) uint8 {
	switch addr - u.addr {
	case regData:
		if len(u.rxBuf) == 0 {
			return 0
		}
		by := u.rxBuf[0]
		u.rxBuf = u.rxBuf[1:]
		debug.DebugDevf(u.addr, u.debugMsk, debugData, "rx %02x", by)
		return by
	case regStatus:
		status := statusTxEmpty
		if len(u.rxBuf) != 0 {
			status |= statusRxReady
		}
		return status
	}
	return 0
}

// Write one byte to a device register. Characters land on the shift
// register and drain on a timer event.
func (u *Uart) WriteByte(addr uint64, value uint8) {
	if addr-u.addr != regData {
		return
	}
	debug.DebugDevf(u.addr, u.debugMsk, debugData, "tx %02x", value)
	u.txBuf = append(u.txBuf, value)
	if len(u.txBuf) == 1 {
		event.AddEvent(u, u.transmit, txDelay, 0)
	}
}

// Timer callback, shift one character out.
func (u *Uart) transmit(_ int) {
	if len(u.txBuf) == 0 {
		return
	}
	u.out.Write(u.txBuf[:1])
	u.txBuf = u.txBuf[1:]
	if len(u.txBuf) != 0 {
		event.AddEvent(u, u.transmit, txDelay, 0)
	}
}

// Queue input for the workload to read.
func (u *Uart) Receive(data []byte) {
	u.rxBuf = append(u.rxBuf, data...)
}

// Shutdown device, flush anything still buffered.
func (u *Uart) Shutdown() {
	if len(u.txBuf) != 0 {
		u.out.Write(u.txBuf)
		u.txBuf = nil
	}
	event.CancelEvent(u, 0)
}

// Enable debug option.
func (u *Uart) Debug(option string) error {
	mask, ok := debugOption[option]
	if !ok {
		return errors.New("UART debug option invalid: " + option)
	}
	u.debugMsk |= mask
	return nil
}
