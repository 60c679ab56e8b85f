// Command envcheck validates environment variables before a program starts.
//
// Usage:
//
//	envcheck check PORT=port MODE=oneof:dev|prod    # print typed values or fail
//	envcheck check --prefix APP_ -o json DB=url     # read APP_DB, print JSON
//	envcheck run PORT=port -- ./server              # validate, then exec
//	envcheck rules                                  # list the rules
//
// Every declared variable is checked in one pass and all failures are
// reported together. The exit code is 1 when validation fails and 2 on
// usage errors.
package main

import (
	"os"

	"github.com/amp-labs/envcheck/cli"
)

func main() {
	os.Exit(cli.Run())
}
