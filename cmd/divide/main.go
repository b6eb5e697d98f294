package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sunfmin/mcp-go-divider/pkg/divider"
)

func main() {
	run(os.Stdout, 10, 0)
}

// run forces the quotient out of the division and prints it. A zero divisor
// panics inside Unwrap before anything is written.
func run(w io.Writer, dividend, divisor int) {
	result := divider.Divide(dividend, divisor).Unwrap()
	fmt.Fprintf(w, "Result: %d\n", result)
}
