package configparser

/*
 * RV - Configuration file parser test cases.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/RV/emu/arch"
)

// Write a config file and load it.
func loadConfig(t *testing.T, text string) (*Machine, error) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.cfg")
	if err := os.WriteFile(name, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return LoadConfigFile(name)
}

func TestMemoryOption(t *testing.T) {
	machine, err := loadConfig(t, "MEMORY 32M\n")
	if err != nil {
		t.Fatal(err)
	}
	if machine.MemSize != 32*1024*1024 {
		t.Errorf("MemSize got: %d expected: %d", machine.MemSize, 32*1024*1024)
	}

	machine, err = loadConfig(t, "memory 512K\n")
	if err != nil {
		t.Fatal(err)
	}
	if machine.MemSize != 512*1024 {
		t.Errorf("MemSize got: %d expected: %d", machine.MemSize, 512*1024)
	}

	if _, err = loadConfig(t, "MEMORY lots\n"); err == nil {
		t.Error("bad MEMORY size did not fail")
	}
}

func TestBaseOption(t *testing.T) {
	machine, err := loadConfig(t, "BASE RV32\n")
	if err != nil {
		t.Fatal(err)
	}
	if machine.Base != arch.RV32I {
		t.Errorf("Base got: %v expected: RV32I", machine.Base)
	}

	machine, err = loadConfig(t, "# comment only\n\n")
	if err != nil {
		t.Fatal(err)
	}
	if machine.Base != arch.RV64I {
		t.Errorf("default Base got: %v expected: RV64I", machine.Base)
	}

	if _, err = loadConfig(t, "BASE RV128\n"); err == nil {
		t.Error("bad BASE did not fail")
	}
}

func TestLogOptions(t *testing.T) {
	machine, err := loadConfig(t, "LOG inst,trap\nLOG DATA\n")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"INST", "TRAP", "DATA"}
	if len(machine.LogOptions) != len(want) {
		t.Fatalf("LogOptions got: %v expected: %v", machine.LogOptions, want)
	}
	for i, option := range want {
		if machine.LogOptions[i] != option {
			t.Errorf("LogOptions[%d] got: %s expected: %s", i, machine.LogOptions[i], option)
		}
	}

	if _, err = loadConfig(t, "LOG ,\n"); err == nil {
		t.Error("empty LOG option did not fail")
	}
}

func TestUnknownModel(t *testing.T) {
	_, err := loadConfig(t, "FLUXCAP 10000000\n")
	if err == nil {
		t.Error("unknown model did not fail")
	}
}

func TestComments(t *testing.T) {
	machine, err := loadConfig(t, "MEMORY 1M # one megabyte\n# BASE RV32\n")
	if err != nil {
		t.Fatal(err)
	}
	if machine.MemSize != 1024*1024 {
		t.Errorf("MemSize got: %d expected: %d", machine.MemSize, 1024*1024)
	}
	if machine.Base != arch.RV64I {
		t.Errorf("Base got: %v expected: RV64I", machine.Base)
	}
}

// A registered model gets its address and options and lands a device
// in the machine.
type stubDevice struct{ addr uint64 }

func (d *stubDevice) MapsAt(addr uint64) bool        { return addr == d.addr }
func (d *stubDevice) ReadByte(_ uint64) uint8        { return 0 }
func (d *stubDevice) WriteByte(_ uint64, _ uint8)    {}
func (d *stubDevice) Shutdown()                      {}
func (d *stubDevice) Debug(_ string) error           { return nil }

func TestModelRegistry(t *testing.T) {
	var gotOpts []Option
	RegisterModel("TESTDEV", func(addr uint64, options []Option) error {
		gotOpts = options
		AddDevice(&stubDevice{addr: addr})
		return nil
	})

	machine, err := loadConfig(t, "TESTDEV 10000000 speed=9600 trace\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(machine.Devices) != 1 {
		t.Fatalf("Devices got: %d expected: 1", len(machine.Devices))
	}
	if !machine.Devices[0].MapsAt(0x10000000) {
		t.Error("device at wrong address")
	}
	if len(gotOpts) != 2 || gotOpts[0].Name != "SPEED" || gotOpts[0].EqualOpt != "9600" ||
		gotOpts[1].Name != "TRACE" {
		t.Errorf("options got: %v", gotOpts)
	}

	if _, err = loadConfig(t, "TESTDEV nothex\n"); err == nil {
		t.Error("bad address did not fail")
	}
}
