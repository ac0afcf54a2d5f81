package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/ilang/lang"
)

func ExampleParseString() {
	src := `module public app.main

let greeting =
  let name = "world"
  print name
`

	main, err := lang.ParseString(context.Background(), src)
	if err != nil {
		fmt.Println(err)

		return
	}

	if err := main.Print(context.Background(), os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// Module (1:15): public app.main
	// LetBinding (3:1): greeting
	//   Body
	//     LetBinding (4:3): name
	//       Body
	//         Expression (4:14): "world"
	//           ValueList (4:14): String "world"
	//     FunctionCall (5:3): print
	//       ValueList (5:9): name
}

func ExampleParseString_error() {
	_, err := lang.ParseString(context.Background(), "let x = 1\n  2")
	fmt.Println(err)
	// Output:
	// syntax error at line 2, column 3: expected "let" or "module" or "namespace", found "2" (statement is not part of any let body; check its indentation)
	//   2 |   2
	//         ^
}

func ExampleQuery_Filter() {
	main, err := lang.ParseString(context.Background(), "let a = 1\nlet inline f x = x\nlet g y = y")
	if err != nil {
		fmt.Println(err)

		return
	}

	q, err := lang.CompileQuery(`kind == "Function" && !inline`)
	if err != nil {
		fmt.Println(err)

		return
	}

	matched, err := q.Filter(main)
	if err != nil {
		fmt.Println(err)

		return
	}

	for _, s := range matched {
		fmt.Println(s.ToNative()["name"])
	}
	// Output:
	// g
}
