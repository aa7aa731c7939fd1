package main

import "github.com/agentic-research/chartbind/cmd"

func main() {
	cmd.Execute()
}
