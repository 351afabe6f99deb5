/* Package postfix implements the Postfix language: a tiny stack language of
integers, builtin functions, and nested executable sequences.

A program declares how many arguments it takes, followed by its body:

	(postfix 2 swap)

Run with arguments 3 and 4, the first argument starts on top of the stack;
swap exchanges the top two values, so the program results in 4.

Source text goes through three stages:

	Tokenize: characters are classified, and folded into tokens; a word or
	number is accumulated until a bracket or space ends it.

	Parse: tokens are folded into a program, a bracketed sub-sequence
	becoming a Block nested inside its enclosing sequence.

	Run: commands are taken from a pending list and executed against an
	operand stack. Integers and blocks are pushed; functions pop their
	operands and push results. Blocks only run when exec moves their commands
	back onto the pending list.

The builtin functions are:

	add sub mul div rem    pop b, pop a, push a op b
	eq lt gt               as above, pushing 1 for true and 0 for false
	exec                   pop a block and run its commands next
	nget                   pop n, push a copy of the n-th integer from the top
	pop                    discard the top value
	sel                    pop x, pop y, pop c; push x if c is 0, else y
	swap                   exchange the top two values

The value left on top of the stack at the end is the program result; it must
be an integer.
*/
package postfix
