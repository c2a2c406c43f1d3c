package main

import (
	"github.com/kirkwilson-git/samples/cmd"
)

func main() {
	cmd.Execute()
}
