// The main package for the judge-scout executable.
package main

import (
	"github.com/eventra/judge-scout/cmd"
)

func main() {
	cmd.Execute()
}
