/*
   Core simulator run loop.

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

package core

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/RV/emu/cpu"
	dev "github.com/rcornwell/RV/emu/device"
	"github.com/rcornwell/RV/emu/event"
	reg "github.com/rcornwell/RV/emu/register"
	"github.com/rcornwell/RV/emu/trap"
)

// Control messages from the monitor.
type Message int

const (
	Start Message = 1 + iota // Run until stopped.
	Stop                     // Pause execution.
	Step                     // Execute Count instructions.
)

type Packet struct {
	Msg   Message
	Count int
}

// Core owns the hart's goroutine: it runs instructions while started,
// advances the event clock, and listens for control packets and
// shutdown. The monitor only touches machine state while the hart is
// stopped.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	ctl     chan Packet
	cpu     *cpu.CPU
	devices []dev.Device
}

// Create the run loop around a hart.
func NewCore(cpu *cpu.CPU) *Core {
	return &Core{
		cpu:  cpu,
		done: make(chan struct{}),
		ctl:  make(chan Packet, 1),
	}
}

// The hart being run.
func (core *Core) CPU() *cpu.CPU {
	return core.cpu
}

// Whether the hart is currently free running.
func (core *Core) Running() bool {
	return core.running
}

// Devices configured into the machine, for monitor commands that talk
// to one directly.
func (core *Core) SetDevices(devices []dev.Device) {
	core.devices = devices
}

func (core *Core) Devices() []dev.Device {
	return core.devices
}

// Send a control packet to the run loop.
func (core *Core) Send(packet Packet) {
	core.ctl <- packet
}

// Run the hart. Meant to be started as a goroutine; returns when Stop
// closes the done channel.
func (core *Core) Run() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		if core.running {
			core.step()
		} else if event.AnyEvent() {
			event.Advance(1)
		}
		select {
		case <-core.done:
			slog.Info("Shutdown CPU core")
			return
		case packet := <-core.ctl:
			core.processPacket(packet)
		default:
		}
	}
}

// Execute one instruction and advance simulated time. An environment
// call with no trap vector installed means the workload has nowhere to
// go; treat it as a halt rather than spinning on the zero vector.
func (core *Core) step() {
	err := core.cpu.Step()
	event.Advance(1)
	if err == nil {
		return
	}
	var exc trap.Exception
	if errors.As(err, &exc) && exc == trap.MachineEnvCall &&
		core.cpu.Regs().ReadCSR(reg.MTVEC) == 0 {
		slog.Info("Workload halted", "pc", core.cpu.Regs().ReadCSR(reg.MEPC))
		core.running = false
	}
}

// Stop the run loop and wait for it to finish.
func (core *Core) Stop() {
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for CPU to finish.")
		return
	}
}

// Process a packet sent to the run loop.
func (core *Core) processPacket(packet Packet) {
	switch packet.Msg {
	case Start:
		core.running = true
	case Stop:
		core.running = false
	case Step:
		count := packet.Count
		if count <= 0 {
			count = 1
		}
		for range count {
			core.step()
		}
	}
}
