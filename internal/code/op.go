// Package code defines the bytecode shared by the bc and dc front ends and
// the execution engine: opcodes, their operand encoding, compiled functions,
// and the program's function and name tables.
package code

import "strconv"

// Op is a single bytecode instruction. Some ops are followed by one or more
// index operands, see Op.NArgs.
type Op byte

// Operand pushes.
const (
	OpInvalid Op = iota

	OpNum       // const: push a literal number
	OpStr       // str: push a string
	OpZero      // push 0
	OpOne       // push 1
	OpLast      // push the last printed value
	OpIbase     // push the input base
	OpObase     // push the output base
	OpScale     // push the scale
	OpVar       // var: push a variable
	OpArrayElem // array: pop an index, push an array element
	OpArray     // array: push a whole array, only valid as a call argument

	// Arithmetic, each pops two and pushes one.
	OpPow
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpPlaces
	OpLshift
	OpRshift

	// Relations, each pops two and pushes 0 or 1.
	OpEq
	OpLe
	OpGe
	OpNe
	OpLt
	OpGt

	OpNot
	OpAnd
	OpOr
	OpNeg

	OpIncPre
	OpDecPre
	OpIncPost
	OpDecPost

	// Assignment, the operand names the arithmetic op to apply first, or is
	// OpAssign itself for plain assignment.
	OpAssign      // op: pops a value and a target, stores, pushes the value
	OpAssignNoVal // op: like OpAssign, but pushes nothing

	OpCall       // nparams, func: call a function
	OpReturn     // pop a value and return it
	OpReturnZero // return 0
	OpReturnVoid // return nothing

	OpLength
	OpScaleOf
	OpSqrt
	OpAbs
	OpRead

	OpJump     // label: jump unconditionally
	OpJumpZero // label: pop a value, jump if zero

	OpPrint    // print with a newline, leave the value
	OpPrintPop // print without newline and pop
	OpPrintStr // pop and print a string verbatim
	OpPop
	OpHalt

	// dc only.
	OpModExp
	OpDivMod
	OpExec     // pop and execute a string
	OpExecCond // then, else: pop a condition, maybe execute a register; else is offset by one
	OpStream
	OpPrintStack
	OpClearStack
	OpStackLen
	OpDup
	OpSwap
	OpAsciify
	OpPushReg  // var: pop a value onto a register's stack
	OpPopReg   // var: pop a register's stack onto the main stack
	OpLoad     // var: push a copy of a register
	OpLoadElem // array: pop an index, push a copy of an array element
	OpQuit
	OpNQuit
	OpPopExec

	opMax
)

// NoElse is the OpExecCond else operand that means there is no else
// register; any other value is one more than the else register's index.
const NoElse = 0

var opNames = [...]string{
	OpInvalid:     "invalid",
	OpNum:         "num",
	OpStr:         "str",
	OpZero:        "zero",
	OpOne:         "one",
	OpLast:        "last",
	OpIbase:       "ibase",
	OpObase:       "obase",
	OpScale:       "scale",
	OpVar:         "var",
	OpArrayElem:   "array_elem",
	OpArray:       "array",
	OpPow:         "^",
	OpMul:         "*",
	OpDiv:         "/",
	OpMod:         "%",
	OpAdd:         "+",
	OpSub:         "-",
	OpPlaces:      "@",
	OpLshift:      "<<",
	OpRshift:      ">>",
	OpEq:          "==",
	OpLe:          "<=",
	OpGe:          ">=",
	OpNe:          "!=",
	OpLt:          "<",
	OpGt:          ">",
	OpNot:         "!",
	OpAnd:         "&&",
	OpOr:          "||",
	OpNeg:         "neg",
	OpIncPre:      "++pre",
	OpDecPre:      "--pre",
	OpIncPost:     "post++",
	OpDecPost:     "post--",
	OpAssign:      "=",
	OpAssignNoVal: "=noval",
	OpCall:        "call",
	OpReturn:      "return",
	OpReturnZero:  "return0",
	OpReturnVoid:  "return_void",
	OpLength:      "length",
	OpScaleOf:     "scale_of",
	OpSqrt:        "sqrt",
	OpAbs:         "abs",
	OpRead:        "read",
	OpJump:        "jump",
	OpJumpZero:    "jump_zero",
	OpPrint:       "print",
	OpPrintPop:    "print_pop",
	OpPrintStr:    "print_str",
	OpPop:         "pop",
	OpHalt:        "halt",
	OpModExp:      "modexp",
	OpDivMod:      "divmod",
	OpExec:        "exec",
	OpExecCond:    "exec_cond",
	OpStream:      "stream",
	OpPrintStack:  "print_stack",
	OpClearStack:  "clear_stack",
	OpStackLen:    "stack_len",
	OpDup:         "dup",
	OpSwap:        "swap",
	OpAsciify:     "asciify",
	OpPushReg:     "push_reg",
	OpPopReg:      "pop_reg",
	OpLoad:        "load",
	OpLoadElem:    "load_elem",
	OpQuit:        "quit",
	OpNQuit:       "nquit",
	OpPopExec:     "pop_exec",
}

var opArgs = [opMax]int{
	OpNum:         1,
	OpStr:         1,
	OpVar:         1,
	OpArrayElem:   1,
	OpArray:       1,
	OpAssign:      1,
	OpAssignNoVal: 1,
	OpCall:        2,
	OpJump:        1,
	OpJumpZero:    1,
	OpExecCond:    2,
	OpPushReg:     1,
	OpPopReg:      1,
	OpLoad:        1,
	OpLoadElem:    1,
}

func (op Op) String() string {
	if op < opMax {
		return opNames[op]
	}
	return "op" + strconv.Itoa(int(op))
}

// Valid returns true if op is a defined instruction.
func (op Op) Valid() bool { return OpInvalid < op && op < opMax }

// NArgs returns how many index operands follow op in the code stream.
func (op Op) NArgs() int {
	if op < opMax {
		return opArgs[op]
	}
	return 0
}

// IsArith returns true for the binary arithmetic ops that may also be used
// as an assignment's operator.
func (op Op) IsArith() bool { return OpPow <= op && op <= OpRshift }

// IsRel returns true for the relational ops.
func (op Op) IsRel() bool { return OpEq <= op && op <= OpGt }
