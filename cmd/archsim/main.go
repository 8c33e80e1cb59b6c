package main

import "github.com/GoSim-25-26J-441/archsim-core/cmd/archsim/commands"

func main() {
	commands.Execute()
}
