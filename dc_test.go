package main

import (
	"testing"

	"github.com/jcorbin/gobc/internal/num"
)

func Test_DC(t *testing.T) {
	vmTestCases{
		dcTest("add").withInput("2 3 + p").expectOutput("5\n").expectStack("5"),
		dcTest("string").withInput("[hello]p").expectOutput("hello\n"),
		dcTest("scale").withInput("2k 10 3 / p", "K p").expectOutput("3.33\n2\n"),
		dcTest("negative").withInput("_5 p").expectOutput("-5\n"),
		dcTest("print pop").withInput("[a]n 5n").expectOutput("a5").expectStack(),
		dcTest("print stack").withInput("1 2 3 f").expectOutput("3\n2\n1\n"),
		dcTest("swap").withInput("1 2 r f").expectOutput("1\n2\n"),
		dcTest("depth").withInput("1 2 z p c z p").expectOutput("2\n0\n").expectStack("0"),
		dcTest("divmod").withInput("17 5 ~ f").expectOutput("2\n3\n"),
		dcTest("modexp").withInput("4 13 497 | p").expectOutput("445\n"),
		dcTest("sqrt").withInput("4k 2 v p").expectOutput("1.4142\n"),
		dcTest("places and shifts").withInput("1.2 3 @ p 1.5 2 H p 15 3 h p").expectOutput(lines(
			"1.200",
			"150",
			".015",
		)),
		dcTest("output base").withInput("16o 255p").expectOutput("FF\n"),
		dcTest("input base").withInput("16i FF p").expectOutput("255\n"),
		dcTest("length").withInput("123.45 Z p [abc] Z p").expectOutput("5\n3\n"),
		dcTest("scale of").withInput("1.50 X p").expectOutput("2\n"),
		dcTest("stream").withInput("65 P").expectOutput("A"),
		dcTest("asciify").withInput("321 a P [xyz] a P").expectOutput("Ax"),
		dcTest("line wrapping").withOptions(WithLineLength(10)).withInput("2 40 ^ p").expectOutput("109951162\\\n7776\n"),
	}.run(t)

	// registers and arrays
	vmTestCases{
		dcTest("register").withInput("7 sa la la + p").expectOutput("14\n").expectVar("a", "7"),
		dcTest("unset register").withInput("lz p").expectOutput("0\n"),
		dcTest("register stack").withInput("1 Sa 2 Sa La La + p", "La").
			expectOutput("3\n").expectError(errStackUnderflow).expectVar("a", "0"),
		dcTest("array").withInput("5 0:a 0;a p 1;a p").expectOutput("5\n0\n"),
		dcTest("array copies").withInput("5 0:a 0;a 6 0:a p").expectOutput("5\n"),
	}.run(t)

	// macros
	vmTestCases{
		dcTest("exec").withInput("[1 + p]sa 5 lax").expectOutput("6\n").expectDepth(1),
		dcTest("exec number").withInput("5 x p").expectOutput("5\n"),
		dcTest("conditional").withInput("[[yes]p]sa 2 1 <a").expectOutput("yes\n"),
		dcTest("conditional else").withInput("[[yes]p]sa [[no]p]sb 1 2 <a eb").expectOutput("no\n"),
		dcTest("negated conditional").withInput("[[yes]p]sa 1 2 !<a 2 2 !=a").expectOutput("yes\n"),
		dcTest("conditional needs a string").withInput("1 sa 2 1 <a").expectError(errWrongType),
		dcTest("countdown").withInput("[p 1 - d 0 <a]sa 3 la x").
			expectOutput("3\n2\n1\n").expectStack("0").expectDepth(1),
		dcTest("deep tail recursion").withInput("[1 - d 0 <a]sa 10000 la x p").
			expectOutput("0\n").expectDepth(1),
		dcTest("nested quit").withInput("[3Q]sc [lcx]sb [lbx]sa lax [end]p").
			expectOutput("end\n").expectDepth(1),
		dcTest("quit from macro").withInput("[q]sa lax [not]p").expectError(errQuit).expectKind(Quit).expectOutput(""),
		dcTest("quit").withInput("[a]p q [b]p").expectError(errQuit).expectOutput("a\n"),
		dcTest("read").withReadLines("2 3 *").withInput("? p").expectOutput("6\n").expectDepth(1),
		dcTest("read without input").withInput("?").expectError(errNoInput),
	}.run(t)

	// errors
	vmTestCases{
		dcTest("underflow").withInput("+", "1 p").expectError(errStackUnderflow).expectOutput("1\n"),
		dcTest("divide by zero").withInput("1 0 /", "z p").expectError(num.ErrDivideByZero).expectOutput("0\n"),
		dcTest("incomplete").withInput("[unterminated").expectError(errIncomplete),
		dcTest("bad character").withInput("1 2 `", "3 p").expectKind(Recoverable).expectOutput("3\n"),
		dcTest("macro error unwinds").withInput("[1 0 /]sa lax", "z p").
			expectError(num.ErrDivideByZero).expectOutput("0\n").expectDepth(1),
	}.run(t)

	vmTestCases{
		dcTest("dump").withInput("1 sa 2 Sa [x]").expectDump(lines(
			"# VM Dump",
			"  mode: dc",
			"  scopes: [{10 10 0}]",
			"  tails: [0]",
			"  last: 0",
			"  frames: (main)@0",
			"# Results",
			"  @0 str \"x\"",
			"# Variables",
			"  a: 1 2",
		)),
	}.run(t)
}
