/*
 * RV - Main process.
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

package main

import (
	"errors"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	reader "github.com/rcornwell/RV/command/reader"
	config "github.com/rcornwell/RV/config/configparser"
	core "github.com/rcornwell/RV/emu/core"
	cpu "github.com/rcornwell/RV/emu/cpu"
	device "github.com/rcornwell/RV/emu/device"
	loader "github.com/rcornwell/RV/emu/loader"
	memory "github.com/rcornwell/RV/emu/memory"
	logger "github.com/rcornwell/RV/util/logger"

	_ "github.com/rcornwell/RV/emu/uart"
	_ "github.com/rcornwell/RV/util/debug"
)

var Logger *slog.Logger

// Hand a LOG option to whichever module recognizes it, the hart first,
// then each configured device.
func debugOption(hart *cpu.CPU, devices []device.Device, option string) error {
	if err := hart.Debug(option); err == nil {
		return nil
	}
	for _, dev := range devices {
		if dev.Debug(option) == nil {
			return nil
		}
	}
	return errors.New("LOG option not recognized by any module: " + option)
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "rv.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optBoot := getopt.StringLong("boot", 'b', "", "RISC-V ELF image to load")
	optDebug := getopt.BoolLong("debug", 'd', "Echo debug messages to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, programLevel, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("RV Started")

	// A missing configuration file just means the default machine.
	machine := config.DefaultMachine()
	if _, err := os.Stat(*optConfig); err == nil {
		machine, err = config.LoadConfigFile(*optConfig)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	mem := memory.New(machine.MemSize)
	for _, device := range machine.Devices {
		mem.Register(device)
	}

	hart := cpu.New(machine.Base, mem)
	for _, option := range machine.LogOptions {
		if err := debugOption(hart, machine.Devices, option); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optBoot != "" {
		entry, err := loader.Load(*optBoot, mem)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		hart.Regs().SetPC(entry)
		Logger.Info("Loaded boot image", "file", *optBoot, "entry", entry)
	}

	runLoop := core.NewCore(hart)
	runLoop.SetDevices(machine.Devices)

	// Start main emulator.
	go runLoop.Run()

	// Read commands until quit.
	reader.ConsoleReader(runLoop)

	Logger.Info("Shutting down CPU")
	runLoop.Stop()
	mem.Shutdown()
	Logger.Info("Simulator stopped.")
}
