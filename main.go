package main

import "github.com/bz888/dualchat/cmd"

func main() {
	cmd.Execute()
}
