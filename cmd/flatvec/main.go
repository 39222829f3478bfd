package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().execute(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "flatvec:", err)
		os.Exit(1)
	}
}
