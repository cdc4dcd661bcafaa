package main

import "github.com/overfield/midikeys/cmd"

func main() {
	cmd.Execute()
}
