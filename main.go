package main

import (
	"github.com/caas-team/readygate/cmd"
)

var version string

func main() {
	cmd.Execute(version)
}
