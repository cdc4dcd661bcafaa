package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/transform"
)

var maxSilence float64

func init() {
	shrinkCmd.Flags().Float64Var(&maxSilence, "max-silence", 2.5, "longest allowed silent gap in seconds")
	rootCmd.AddCommand(shrinkCmd)
}

var shrinkCmd = &cobra.Command{
	Use:   "shrink-silences <in.mid> <out.mid>",
	Short: "Caps long silent gaps at a maximum duration",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		res, err := transform.ShrinkSilences(s, maxSilence)
		if err != nil {
			panic("Could not shrink silences: " + err.Error())
		}
		if err := midifile.Write(res, args[1]); err != nil {
			panic("Could not write midi file: " + err.Error())
		}
		fmt.Printf("Saved shrunk midi: %v\n", args[1])
	},
}
