package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// printCompileErrors prints one line per accumulated compile error,
// rather than go-multierror's default multi-line "N errors occurred"
// summary.
func printCompileErrors(err error) {
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			fmt.Println(e)
		}
		return
	}
	fmt.Println(err)
}
