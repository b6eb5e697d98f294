// Sample program that ignores a division error and aborts.
package main

import (
	"errors"
	"fmt"
)

func divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("Division by zero")
	}
	return a / b, nil
}

func mustDivide(a, b int) int {
	q, err := divide(a, b)
	if err != nil {
		panic(err)
	}
	return q
}

func main() {
	fmt.Println("Dividing 10 by 0")
	fmt.Println("Result:", mustDivide(10, 0))
}
