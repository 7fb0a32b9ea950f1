/* Package main: gobc, an arbitrary precision calculator in the manner of bc
and dc.

Both languages compile into one bytecode, run by a single VM. Numbers are
decimal, carried to any number of digits; every operation that could lose
digits does so under an explicit scale, the count of fractional digits kept.

bc

bc is an algebraic language with C-like syntax:

	scale = 20
	define f(n) {
		if (n < 2) return 1
		return n * f(n-1)
	}
	f(20) / 3

An expression statement prints its value unless it is an assignment.
Functions may take numbers, arrays by value (a[]), or arrays by reference
(*a[]); their parameters and auto variables shadow globals of the same name
until they return. The globals ibase, obase, and scale are dynamically scoped:
a function may change them freely, and its caller's values are restored on
return.

The read() function parses and evaluates one line of input, in the current
ibase. The quit statement exits as soon as it is compiled, while halt exits
when it is executed.

dc

dc is a reverse polish calculator whose commands are single characters:

	[p 1 - d 0 <a]sa 3 la x

prints 3, 2, and 1. Registers hold a stack of values each, pushed and popped
by S and L; strings stored in registers are macros, run by x and by the
conditional commands. A macro that runs another as its last act is replaced
by it, so tail recursion runs in constant depth; q and Q still count each
replaced macro as a level to exit.

Errors

Most errors abandon the current statement and return the VM to its top
level, keeping any definitions and variables. Running code may be cancelled
through its context, which unwinds the same way.

Section 1: see internal/num for the decimal engine

Section 2: see internal/bc and internal/dc for the front ends

Section 3: see exec.go for the VM

*/
package main
