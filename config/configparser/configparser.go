/*
 * RV - Configuration file parser.
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

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rcornwell/RV/emu/arch"
	dev "github.com/rcornwell/RV/emu/device"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <hexaddress> *(<option>) |
 *           <option-name> <whitespace> <value> |
 *           <file-name> <whitespace> <quoteopt>
 * <option> ::= <string> | <string> '=' <string>
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 *
 * Recognized lines:
 *   MEMORY <number>[K|M]     size of physical memory
 *   BASE RV32|RV64           base integer ISA
 *   LOGFILE <file>           debug trace output
 *   LOG <opt>[,<opt>...]     enable module debug options
 *   CONSOLE <hexaddr>        console UART at given address
 */

// List of options to pass to create routine.
type Option struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
}

// Kinds of registered names.
const (
	TypeModel  = 1 + iota // Device with a bus address.
	TypeOption            // Option with a single value.
	TypeFile              // Option naming a file.
)

// Model creation list.
type modelDef struct {
	create func(uint64, []Option) error // Create a device at address.
	value  func(string) error           // Accept an option or file value.
	ty     int
}

var models = map[string]modelDef{}

var lineNumber int

// Machine settings collected while a configuration file is parsed.
type Machine struct {
	MemSize    uint64       // Physical memory size in bytes, 0 for default.
	Base       arch.Base    // Base integer ISA.
	Devices    []dev.Device // Devices to map into memory.
	LogOptions []string     // Debug options to hand to the modules.
}

var current *Machine

// RegisterModel should be called from init functions of device packages.
func RegisterModel(mod string, fn func(uint64, []Option) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{create: fn, ty: TypeModel}
}

// Register an option taking one value.
func RegisterOption(mod string, fn func(string) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{value: fn, ty: TypeOption}
}

// Register an option naming a file.
func RegisterFile(mod string, fn func(string) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{value: fn, ty: TypeFile}
}

// Add a created device to the machine being configured. Called by the
// create routines of device packages.
func AddDevice(device dev.Device) {
	current.Devices = append(current.Devices, device)
}

// Built in machine wide options.
func init() {
	RegisterOption("MEMORY", setMemory)
	RegisterOption("BASE", setBase)
	RegisterOption("LOG", setLog)
}

// Parse a memory size with an optional K or M suffix.
func setMemory(value string) error {
	mult := uint64(1)
	switch {
	case strings.HasSuffix(value, "K"), strings.HasSuffix(value, "k"):
		mult = 1024
		value = value[:len(value)-1]
	case strings.HasSuffix(value, "M"), strings.HasSuffix(value, "m"):
		mult = 1024 * 1024
		value = value[:len(value)-1]
	}
	size, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return errors.New("MEMORY size invalid: " + value)
	}
	current.MemSize = size * mult
	return nil
}

// Collect debug options. The hosting process hands each one to the
// module that recognizes it once the machine is built.
func setLog(value string) error {
	for _, option := range strings.Split(value, ",") {
		option = strings.ToUpper(strings.TrimSpace(option))
		if option == "" {
			return errors.New("LOG option empty")
		}
		current.LogOptions = append(current.LogOptions, option)
	}
	return nil
}

// Select the base ISA.
func setBase(value string) error {
	switch strings.ToUpper(value) {
	case "RV32", "RV32I":
		current.Base = arch.RV32I
	case "RV64", "RV64I":
		current.Base = arch.RV64I
	default:
		return errors.New("BASE must be RV32 or RV64: " + value)
	}
	return nil
}

// Split a line into whitespace separated fields, honoring double
// quotes and stripping comments.
func fields(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	var out []string
	var cur strings.Builder
	inQuote := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case !inQuote && (ch == ' ' || ch == '\t'):
			if cur.Len() != 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(ch)
		}
	}
	if cur.Len() != 0 {
		out = append(out, cur.String())
	}
	return out
}

// Parse the options after a model address.
func parseOptions(words []string) []Option {
	options := []Option{}
	for _, word := range words {
		opt := Option{Name: strings.ToUpper(word)}
		if i := strings.IndexByte(word, '='); i >= 0 {
			opt.Name = strings.ToUpper(word[:i])
			opt.EqualOpt = word[i+1:]
		}
		options = append(options, opt)
	}
	return options
}

// Process one configuration line.
func parseLine(line string) error {
	words := fields(line)
	if len(words) == 0 {
		return nil
	}
	name := strings.ToUpper(words[0])
	model, ok := models[name]
	if !ok {
		return fmt.Errorf("line %d: unknown model: %s", lineNumber, words[0])
	}

	switch model.ty {
	case TypeModel:
		if len(words) < 2 {
			return fmt.Errorf("line %d: %s needs an address", lineNumber, name)
		}
		addr, err := strconv.ParseUint(words[1], 16, 64)
		if err != nil {
			return fmt.Errorf("line %d: %s address invalid: %s", lineNumber, name, words[1])
		}
		if err := model.create(addr, parseOptions(words[2:])); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}

	case TypeOption, TypeFile:
		if len(words) != 2 {
			return fmt.Errorf("line %d: %s takes one value", lineNumber, name)
		}
		if err := model.value(words[1]); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return nil
}

// Load a configuration file, returning the machine it describes.
func LoadConfigFile(fileName string) (*Machine, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	current = &Machine{Base: arch.RV64I}
	lineNumber = 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return current, nil
}

// Default machine when no configuration file is present.
func DefaultMachine() *Machine {
	current = &Machine{Base: arch.RV64I}
	return current
}
