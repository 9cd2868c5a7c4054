package main

import (
	"github.com/coolerd/coolerd/cmd"
)

func main() {
	cmd.Execute()
}
