/*
   RV - Monitor command parsing.

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
	"strconv"
	"strings"

	core "github.com/rcornwell/RV/emu/core"
)

// One monitor command. Name may be abbreviated to Min characters.
type cmd struct {
	Name    string
	Min     int
	Help    string
	Process func(*cmdLine, *core.Core) (bool, error)
}

// Command line being picked apart.
type cmdLine struct {
	words []string
	pos   int
}

// Next word of the line, empty string when exhausted.
func (line *cmdLine) getWord() string {
	if line.pos >= len(line.words) {
		return ""
	}
	word := line.words[line.pos]
	line.pos++
	return word
}

// Rest of the line joined back together.
func (line *cmdLine) getRest() string {
	rest := strings.Join(line.words[line.pos:], " ")
	line.pos = len(line.words)
	return rest
}

// Next word as a hex number.
func (line *cmdLine) getHex() (uint64, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("missing hex value")
	}
	word = strings.TrimPrefix(word, "0x")
	value, err := strconv.ParseUint(word, 16, 64)
	if err != nil {
		return 0, errors.New("invalid hex value: " + word)
	}
	return value, nil
}

// Next word as a decimal number, with a default when absent.
func (line *cmdLine) getNumber(def int) (int, error) {
	word := line.getWord()
	if word == "" {
		return def, nil
	}
	value, err := strconv.Atoi(word)
	if err != nil {
		return 0, errors.New("invalid number: " + word)
	}
	return value, nil
}

// Match a command by abbreviation.
func matchCmd(word string) *cmd {
	word = strings.ToLower(word)
	for i := range cmdList {
		command := &cmdList[i]
		if len(word) >= command.Min && strings.HasPrefix(command.Name, word) {
			return command
		}
	}
	return nil
}

// Process one command line. Returns true when the monitor should exit.
func ProcessCommand(input string, core *core.Core) (bool, error) {
	line := &cmdLine{words: strings.Fields(input)}
	word := line.getWord()
	if word == "" {
		return false, nil
	}
	command := matchCmd(word)
	if command == nil {
		return false, errors.New("unknown command: " + word)
	}
	return command.Process(line, core)
}

// Command completion for the line editor.
func CompleteCmd(input string) []string {
	words := strings.Fields(input)
	if len(words) > 1 {
		return nil
	}
	prefix := strings.ToLower(strings.TrimSpace(input))
	var matches []string
	for i := range cmdList {
		if strings.HasPrefix(cmdList[i].Name, prefix) {
			matches = append(matches, cmdList[i].Name)
		}
	}
	return matches
}
