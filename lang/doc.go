// Package lang implements FLYUX, a small sigil-based scripting language.
//
// A FLYUX source is a set of function definitions. Running a program calls
// the function named main. Every value is carried as text: numbers, booleans,
// strings, arrays and records are all strings whose shape determines how an
// operator or declaration treats them.
//
// # Syntax
//
//	F> name(a, b(int)) { ... }     function definition
//	R> expr                        return
//	L> [n] { ... }                 repeat n times, binding _ to the index
//	L> arr : item { ... }          iterate the elements of arr
//	L> (cond) { ... }              while loop
//	L> (init; cond; step) { ... }  for loop
//	I>[prompt, type, limit]        read one line from standard input
//	if (c) { ... } elif (c) { ... } else { ... }
//	// comment to end of line
//
// Bindings:
//
//	x := 1            declare with the type inferred from the value
//	x :(int) = 1      declare a typed constant
//	x :[float] = 1.5  declare a typed variable
//	x = 2             assign an existing binding
//	a[0] = 3          write through an index or property chain
//	x++  --x          increment or decrement a numeric binding
//
// Types are int, float, bool, string and obj. Arrays are written [a, b] and
// records {"k": v}; both are stored as their serialized text.
//
// # Evaluation
//
// Each call gets a fresh environment holding only its parameters. Blocks
// share the environment of their function, so names declared in a loop or
// branch body remain visible after it. Relational operators chain:
// a < b < c means (a < b) && (b < c). Only "0" and "false" are falsy.
//
// # Example
//
//	F> main() {
//	    total := 0
//	    L> [5] { total = total + _ }
//	    print("total", total)
//	    R> total
//	}
//
// Parse with [ParseString] or [ParseReader] and execute with [Program.Run].
// A [Session] evaluates source incrementally for interactive use.
package lang
