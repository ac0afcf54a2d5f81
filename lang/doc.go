// Package lang parses a small whitespace-sensitive functional language into
// an abstract syntax tree.
//
// # Grammar
//
// Informal EBNF:
//
//	Main        → (Namespace | Module | Function | LetBinding)+ EOF
//	Namespace   → 'namespace' Name
//	Module      → 'module' [Access] Name
//	Access      → 'public' | 'internal' | 'private'
//	Function    → 'let' ['inline'] Ident Params [':' Type] '=' Body
//	LetBinding  → 'let' Params+ '=' Body
//	Params      → IdentValue | '(' [Param (',' Param)*] ')'
//	Param       → IdentValue [':' Type]
//	Type        → IdentValue ('*' IdentValue)* | '(' Type ')'
//	Body        → Statement*            (delimited by layout)
//	Statement   → LetBinding | Call | Expression
//	Expression  → Operand [Op Expression]
//	Operand     → '(' Call ')' | Call | Value
//	Call        → Name Value+
//	Value       → Literal | Ident | '(' [Item (',' Item)*] ')' | '(' Expression ')'
//	Op          → '+' | '-' | '*' | '/' | '<<' | '>>'
//	Name        → Ident ('.' Ident)*
//
// Function is attempted before LetBinding. A let binding is committed once
// "let" is read, a function once "=" is read, and namespace and module once
// their keyword is read: a malformed construct after that point fails the
// whole parse.
//
// Operations have no precedence and associate to the right, so a + b - c
// is a + (b - c). An operation must follow its left operand on the same line.
//
// # Layout
//
// Bodies have no closing token. Each statement is anchored at its first
// character (for a let binding, its "let" keyword) and joins the current
// body only if it starts on a later line than the previous statement, at the
// same or a greater column, and to the right of the "let" that opened the
// body:
//
//	let f =
//	let x = 1
//	  let y = 2
//
// Here f's body holds both x and y. In
//
//	let f =
//	let x = 1
//	let g = 3
//
// f's body holds only x, and g is a new top-level binding. A let binding on
// the first line of the file never starts a body; it is left to the
// enclosing scope.
//
// # Example
//
//	module public app.main
//
//	let inline add (a : int, b : int) : int =
//	  a + b
//
//	let answer =
//	  let base = 40
//	  add (base, 2)
package lang
