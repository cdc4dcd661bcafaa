package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/transform"
)

func init() {
	rootCmd.AddCommand(removeLowerCmd)
}

var removeLowerCmd = &cobra.Command{
	Use:   "remove-lower <in.mid> <out.mid>",
	Short: "Keeps only the highest of notes sharing the same start and end",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		if err := midifile.Write(transform.RemoveLowerNotes(s), args[1]); err != nil {
			panic("Could not write midi file: " + err.Error())
		}
		fmt.Printf("Saved processed midi: %v\n", args[1])
	},
}
