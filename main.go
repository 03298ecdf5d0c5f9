package main

import "github.com/simonyos/toolrunner/cmd"

func main() {
	cmd.Execute()
}
