// Package errchain walks a wrapped-error chain for diagnostics against a
// misbehaving connection, printing or spew-dumping each layer in turn.
package errchain

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// Print walks err's Unwrap chain and prints each layer with its type.
func Print(err error) {
	if err == nil {
		fmt.Println("<nil>")
		return
	}
	for i, e := 0, err; e != nil; i, e = i+1, errors.Unwrap(e) {
		fmt.Printf("[%d] %T: %v\n", i, e, e)
	}
}

// Dump walks err's Unwrap chain and spew-dumps each layer, for use in
// manual debugging sessions against a misbehaving connection.
func Dump(err error) {
	for i := 0; err != nil; err = errors.Unwrap(err) {
		fmt.Printf("[%d] %T\n", i, err)
		spew.Dump(err)
		i++
	}
}
