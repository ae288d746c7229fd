// bsicollect sorts the samples of a blood stream infection study and
// fetches their sequence files.
package main

import (
	"os"

	"github.com/andrew-torda/bsi_collect/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
