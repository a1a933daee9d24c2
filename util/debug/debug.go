/*
 * RV - Log debug data to a file
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

package debug

import (
	"fmt"
	"os"

	config "github.com/rcornwell/RV/config/configparser"
)

var logFile *os.File

// Generic debug message. Messages only land when the module's debug
// mask has the option bit set and a debug file is configured.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if logFile == nil {
		return
	}
	if (mask & level) != 0 {
		fmt.Fprintf(logFile, module+": "+format+"\n", a...)
	}
}

// Device debug message.
func DebugDevf(addr uint64, mask int, level int, format string, a ...interface{}) {
	if logFile == nil {
		return
	}
	if (mask & level) != 0 {
		fmt.Fprintf(logFile, "%08x: "+format+"\n", append([]interface{}{addr}, a...)...)
	}
}

// register the log file option on initialize.
func init() {
	config.RegisterFile("LOGFILE", create)
}

// Create the debug output file.
func create(fileName string) error {
	if logFile != nil {
		return fmt.Errorf("Can't have more then one log file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create log file: %s", fileName)
	}

	logFile = file
	return nil
}
