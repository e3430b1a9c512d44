// We structure the azb command line tool as a single executable with
// subcommands, as is common for cloud utilities.
package main

import (
	"github.com/storagekit/azb/cmd"
)

func main() {
	cmd.Execute()
}
