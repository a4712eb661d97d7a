package main

import "github.com/zjrosen/soundscape/cmd"

func main() {
	cmd.Execute()
}
