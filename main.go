package main

import "github.com/windvane/windvane/cmd"

func main() {
	cmd.Execute()
}
