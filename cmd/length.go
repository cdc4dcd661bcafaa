package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/score"
)

func init() {
	rootCmd.AddCommand(lengthCmd)
}

var lengthCmd = &cobra.Command{
	Use:   "length <file.mid>",
	Short: "Prints a MIDI file's duration in seconds",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		total, err := score.TotalLength(s)
		if err != nil {
			panic("Could not compute length: " + err.Error())
		}
		fmt.Printf("%.3f\n", total)
	},
}
