/*
   RV - Trap taxonomy: exceptions, interrupts and privilege modes.

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

package trap

// Exception enumerates the synchronous trap kinds. The values are the
// architectural cause codes written to xCAUSE when the trap is taken.
// Exceptions are values that flow out of the core; they satisfy error so
// that a translation or an execute step can return one directly.
type Exception int

const (
	InstructionAddressMisaligned Exception = 0
	InstructionAccessFault       Exception = 1
	IllegalInstruction           Exception = 2
	Breakpoint                   Exception = 3
	LoadAddressMisaligned        Exception = 4
	LoadAccessFault              Exception = 5
	StoreAddressMisaligned       Exception = 6
	StoreAccessFault             Exception = 7
	UserEnvCall                  Exception = 8
	SupervisorEnvCall            Exception = 9
	Reserved                     Exception = 10
	MachineEnvCall               Exception = 11
	InstructionPageFault         Exception = 12
	LoadPageFault                Exception = 13
	StorePageFault               Exception = 15
)

var exceptionName = map[Exception]string{
	InstructionAddressMisaligned: "instruction address misaligned",
	InstructionAccessFault:       "instruction access fault",
	IllegalInstruction:           "illegal instruction",
	Breakpoint:                   "breakpoint",
	LoadAddressMisaligned:        "load address misaligned",
	LoadAccessFault:              "load access fault",
	StoreAddressMisaligned:       "store address misaligned",
	StoreAccessFault:             "store access fault",
	UserEnvCall:                  "environment call from U-mode",
	SupervisorEnvCall:            "environment call from S-mode",
	Reserved:                     "reserved",
	MachineEnvCall:               "environment call from M-mode",
	InstructionPageFault:         "instruction page fault",
	LoadPageFault:                "load page fault",
	StorePageFault:               "store page fault",
}

// Cause code written to xCAUSE.
func (e Exception) Code() uint64 {
	return uint64(e)
}

func (e Exception) String() string {
	name, ok := exceptionName[e]
	if !ok {
		return "reserved"
	}
	return name
}

func (e Exception) Error() string {
	return e.String()
}

// Interrupt enumerates the asynchronous trap kinds. The values are the
// architectural cause codes, without the interrupt bit; the bit is set
// at the trap taking site.
type Interrupt int

const (
	UserSoftware       Interrupt = 0
	SupervisorSoftware Interrupt = 1
	MachineSoftware    Interrupt = 3
	UserTimer          Interrupt = 4
	SupervisorTimer    Interrupt = 5
	MachineTimer       Interrupt = 7
	UserExternal       Interrupt = 8
	SupervisorExternal Interrupt = 9
	MachineExternal    Interrupt = 11
)

var interruptName = map[Interrupt]string{
	UserSoftware:       "user software interrupt",
	SupervisorSoftware: "supervisor software interrupt",
	MachineSoftware:    "machine software interrupt",
	UserTimer:          "user timer interrupt",
	SupervisorTimer:    "supervisor timer interrupt",
	MachineTimer:       "machine timer interrupt",
	UserExternal:       "user external interrupt",
	SupervisorExternal: "supervisor external interrupt",
	MachineExternal:    "machine external interrupt",
}

// Cause code written to xCAUSE, without the interrupt bit.
func (i Interrupt) Code() uint64 {
	return uint64(i)
}

func (i Interrupt) String() string {
	name, ok := interruptName[i]
	if !ok {
		return "reserved"
	}
	return name
}

// Privilege is the mode a hart runs in. The encoding matches the
// xSTATUS xPP fields.
type Privilege int

const (
	User       Privilege = 0
	Supervisor Privilege = 1
	ReservedPM Privilege = 2
	Machine    Privilege = 3
)

func (p Privilege) String() string {
	switch p {
	case User:
		return "user"
	case Supervisor:
		return "supervisor"
	case Machine:
		return "machine"
	}
	return "reserved"
}
