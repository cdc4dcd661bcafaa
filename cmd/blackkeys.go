package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/transform"
)

func init() {
	rootCmd.AddCommand(blackKeysCmd)
}

var blackKeysCmd = &cobra.Command{
	Use:   "blackkeys <in.mid> <out.mid> <up|down|remove>",
	Short: "Moves black-key notes onto white keys, or drops them",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		mode, err := transform.ParseBlackKeyMode(args[2])
		if err != nil {
			panic(err.Error())
		}
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		if err := midifile.Write(transform.ProcessBlackKeys(s, mode), args[1]); err != nil {
			panic("Could not write midi file: " + err.Error())
		}
		fmt.Printf("Saved processed midi: %v\n", args[1])
	},
}
