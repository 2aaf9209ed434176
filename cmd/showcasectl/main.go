// Command showcasectl drives the showcase pipeline from a terminal. Records
// go to the sqlite file at SQLITE_PATH unless STORE_BACKEND names another
// backend.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
