package main

import "github.com/tranvictor/ethbook/cmd"

func main() {
	cmd.Execute()
}
