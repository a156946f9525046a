package main

import "fwlens/cmd/fwlens/cmd"

func main() {
	cmd.Execute()
}
