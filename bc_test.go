package main

import (
	"context"
	"testing"
	"time"

	"github.com/jcorbin/gobc/internal/num"
)

func Test_BC(t *testing.T) {
	var testCases vmTestCases

	// arithmetic and printing
	testCases = append(testCases,
		vmTest("add").withInput("1+1").expectOutput("2\n"),
		vmTest("division at scale").withInput("scale=4; 1/3").expectOutput(".3333\n"),
		vmTest("integer division").withInput("7/2").expectOutput("3\n"),
		vmTest("remainder").withInput("-7%3").expectOutput("-1\n"),
		vmTest("power").withInput("2^10", "2^-2", "scale=3; 2^-2").expectOutput(lines(
			"1024",
			"0",
			".250",
		)),
		vmTest("square root").withInput("scale=5; sqrt(2)").expectOutput("1.41421\n"),
		vmTest("output base").withInput("obase=16; 255").expectOutput("FF\n"),
		vmTest("large output base").withInput("obase=999; 1000000").expectOutput(" 001 002 001\n"),
		vmTest("input base").withInput("ibase=16; FF; A").expectOutput("255\n10\n"),
		vmTest("constants reparse").withInput("x = 10", "ibase = 2", "x + 10").expectOutput("12\n"),
		vmTest("negation").withInput("-5; -(-5); -(2-7)").expectOutput("-5\n5\n5\n"),
		vmTest("extra math").withInput("1.2@3; 1.5<<2; 15>>3").expectOutput(lines(
			"1.200",
			"150",
			".015",
		)),
		vmTest("abs").withInput("abs(-2.5)").expectOutput("2.5\n"),
		vmTest("length and scale").withInput("length(123.45); scale(123.45); length(0)").expectOutput("5\n2\n0\n"),
		vmTest("relations").withInput("1<2; 2<1; 1==1 && 0; !0; 0||3; 2>=2; 3!=3").expectOutput(lines(
			"1", "0", "0", "1", "1", "1", "0",
		)),
		vmTest("line wrapping").withOptions(WithLineLength(10)).withInput("2^40").expectOutput("109951162\\\n7776\n"),
		vmTest("no wrapping").withOptions(WithLineLength(0)).withInput("2^40").expectOutput("1099511627776\n"),
		vmTest("last").withInput("5", ".+1", "last").expectOutput("5\n6\n6\n"),
		vmTest("last is a number").apply(
			withVMInput("last = 2", "last * 3"),
			expectVMOutput("6\n"),
			expectVMDepth(1),
			expectVMStack(),
		),
		vmTest("limits").withInput("limits").expectOutput(limits()),
	)

	// statements
	testCases = append(testCases,
		vmTest("assignment is quiet").withInput("x = 5", "(x = 6)", "x").expectOutput("6\n6\n").expectVar("x", "6"),
		vmTest("compound assignment").withInput("x=10; x+=5; x*=2; x-=1; x/=2; x").expectOutput("14\n"),
		vmTest("increments").withInput("x=1", "x++", "x", "(x++)", "x", "--x", "(x--)").expectOutput(lines(
			"2", "2", "3", "2",
		)).expectVar("x", "1"),
		vmTest("if else").withInput("if (0) 1 else 2", "if (1) { 3; 4 }").expectOutput("2\n3\n4\n"),
		vmTest("while").withInput("i=0; while (i<3) { i; i+=1 }").expectOutput("0\n1\n2\n"),
		vmTest("for").withInput("for (i=0; i<10; i++) { if (i==2) continue; if (i==4) break; i }").expectOutput("0\n1\n3\n"),
		vmTest("print").withInput(`print "a\tb", 1+1, "\n"`).expectOutput("a\tb2\n"),
		vmTest("print escapes").withInput(`print "\q\\\e\z\n"`).expectOutput("\"\\\\\\z\n"),
		vmTest("string statement").withInput(`"hi` + "\n" + `"`).expectOutput("hi\n"),
		vmTest("print in base").withInput("obase=2; print 5, \"\\n\"").expectOutput("101\n"),
	)

	// functions
	testCases = append(testCases,
		vmTest("function").withInput("define f(x) { return x*2 }\nf(7)").expectOutput("14\n").expectDepth(1),
		vmTest("recursion").withInput(
			"define f(n) { if (n <= 1) return 1; return n*f(n-1) }",
			"f(10)",
		).expectOutput("3628800\n").expectDepth(1),
		vmTest("implicit return").withInput("define f() { 1 }", "f()").expectOutput("1\n0\n"),
		vmTest("scale is scoped").withInput(
			"define s() { scale = 10; return scale }",
			"scale = 2",
			"s()",
			"scale",
		).expectOutput("10\n2\n"),
		vmTest("ibase is scoped").withInput(
			"define b() { ibase = 16; return A }",
			"b()",
			"10",
		).expectOutput("10\n10\n"),
		vmTest("autos shadow globals").withInput(
			"x = 5",
			"define f() { auto x; x = 3; return x }",
			"f()",
			"x",
		).expectOutput("3\n5\n").expectVar("x", "5"),
		vmTest("parameters see caller values").withInput(
			"x = 2; y = 3",
			"define f(y, x) { return y - x }",
			"f(x, y)",
		).expectOutput("-1\n"),
		vmTest("redefinition").withInput(
			"define f() { return 1 }",
			"define g() { return f() }",
			"define f() { return 2 }",
			"g()",
		).expectOutput("2\n"),
		vmTest("void function").withInput(
			"define void v() { print \"v\\n\" }",
			"v()",
		).expectOutput("v\n"),
	)

	// arrays
	testCases = append(testCases,
		vmTest("array elements").withInput("a[3] = 7", "a[3]", "a[1]", "length(a[])").expectOutput("7\n0\n4\n"),
		vmTest("array by value").withInput(
			"define f(b[]) { b[0] = 9; return b[0] }",
			"a[0] = 1",
			"f(a[])",
			"a[0]",
		).expectOutput("9\n1\n"),
		vmTest("array by reference").withInput(
			"define void g(*b[]) { b[0] = 9 }",
			"a[0] = 1",
			"g(a[])",
			"a[0]",
		).expectOutput("9\n"),
		vmTest("reference through reference").withInput(
			"define void h(*c[]) { c[1] = 5 }",
			"define void g(*b[]) { h(b[]) }",
			"g(a[])",
			"a[1]",
		).expectOutput("5\n"),
		vmTest("array locals").withInput(
			"a[0] = 1",
			"define f() { auto a[]; a[0] = 2; return a[0] }",
			"f()",
			"a[0]",
		).expectOutput("2\n1\n"),
	)

	// read()
	testCases = append(testCases,
		vmTest("read").withReadLines("6*7").withInput("read()").expectOutput("42\n").expectDepth(1),
		vmTest("read in ibase").withReadLines("A").withInput("ibase=16", "read()").expectOutput("10\n"),
		vmTest("read twice").withReadLines("1", "2").withInput("read() + read()").expectOutput("3\n"),
		vmTest("recursive read").withReadLines("read()").withInput("read()").
			expectError(errRecursiveRead).expectDepth(1),
		vmTest("read without input").withInput("read()").expectError(errNoInput),
		vmTest("bad read").withReadLines("1 +").withInput("read()", "2").expectOutput("2\n").expectKind(Recoverable),
	)

	// errors
	testCases = append(testCases,
		vmTest("divide by zero").withInput("1/0", "2").
			expectError(num.ErrDivideByZero).expectKind(Recoverable).expectOutput("2\n"),
		vmTest("negative sqrt").withInput("sqrt(-1)").expectError(num.ErrNegative),
		vmTest("non integer power").withInput("2^0.5").expectError(num.ErrNonInteger),
		vmTest("undefined function").withInput("f(1)").expectError(errUndefinedFunc),
		vmTest("wrong arity").withInput("define f(x) { return x }", "f(1, 2)").expectError(errParams),
		vmTest("wrong argument type").withInput("define f(x) { return x }", "f(a[])").expectError(errWrongType),
		vmTest("bad ibase").withInput("ibase=1", "ibase=17", "ibase").
			expectError(errBadIbase).expectOutput("10\n"),
		vmTest("bad obase").withInput("obase=1000").expectError(errBadObase),
		vmTest("bad scale").withInput("scale=-1").expectError(errBadScale),
		vmTest("void value").withInput("define void v() { }", "v() + 1").expectError(errVoidValue),
		vmTest("negative index").withInput("a[-1]").expectError(errArrayIndex),
		vmTest("huge index").withInput("a[65536] = 1").expectError(errArrayIndex),
		vmTest("parse error").withInput("1 +* 2", "3").expectKind(Recoverable).expectOutput("3\n"),
		vmTest("incomplete").withInput("while (1) {").expectError(errIncomplete),
		vmTest("unwinds locals").withInput(
			"x = 7",
			"define f(x) { auto y; y = 1/0; return y }",
			"f(3)",
			"x",
		).expectError(num.ErrDivideByZero).expectOutput("7\n").expectVar("x", "7").expectDepth(1).expectStack(),
		vmTest("statement runs until error").withInput("1; 2/0; 3", "4").
			expectError(num.ErrDivideByZero).expectOutput("1\n4\n"),
	)

	// exiting
	testCases = append(testCases,
		vmTest("quit").withInput("1\nquit\n2", "3").expectError(errQuit).expectKind(Quit).expectOutput("1\n"),
		vmTest("halt").withInput("1; halt; 2", "3").expectError(errQuit).expectOutput("1\n"),
		vmTest("quit in a dead branch").withInput("if (0) quit", "1").expectError(errQuit).expectOutput(""),
	)

	// cancellation
	testCases = append(testCases,
		vmTest("cancel loop").withTimeout(10*time.Millisecond).withInput("while (1) x += 1", "1").
			expectError(context.DeadlineExceeded).expectKind(Cancelled).expectOutput("1\n").expectDepth(1),
		vmTest("cancel call").withTimeout(10*time.Millisecond).withInput(
			"define f(x) { auto i; while (1) i += x }",
			"f(1)",
			"scale",
		).expectError(context.DeadlineExceeded).expectOutput("0\n").expectDepth(1).expectStack(),
	)

	// state dumps
	testCases = append(testCases,
		vmTest("dump").withInput("x = 5", "a[1] = 2").expectDump(lines(
			"# VM Dump",
			"  mode: bc",
			"  scopes: [{10 10 0}]",
			"  tails: [0]",
			"  last: 0",
			"  frames: (main)@0",
			"# Variables",
			"  x: 5",
			"# Arrays",
			"  a[]: [0 2]",
		)),
	)

	testCases.run(t)
}
