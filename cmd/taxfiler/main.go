// Command taxfiler computes Indian income tax and GST and manages filings
// through their lifecycle, either from the command line or over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/taxportal/filing-engine/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", domain.Code(err), err)
		os.Exit(1)
	}
}
