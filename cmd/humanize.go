package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/transform"
)

var humanizeStep uint32

func init() {
	humanizeCmd.Flags().Uint32Var(&humanizeStep, "step", 1, "tick offset between staggered notes")
	rootCmd.AddCommand(humanizeCmd)
}

var humanizeCmd = &cobra.Command{
	Use:   "humanize <in.mid> <out.mid>",
	Short: "Staggers simultaneous note starts by a few ticks",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		if err := midifile.Write(transform.Humanize(s, humanizeStep), args[1]); err != nil {
			panic("Could not write midi file: " + err.Error())
		}
		fmt.Printf("Saved humanized midi: %v\n", args[1])
	},
}
