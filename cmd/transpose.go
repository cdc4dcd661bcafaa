package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/transform"
)

func init() {
	rootCmd.AddCommand(transposeCmd)
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <in.mid> <out.mid> <semitones>",
	Short: "Shifts every note by N semitones",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		shift, err := strconv.Atoi(args[2])
		if err != nil {
			panic("Bad semitone count: " + err.Error())
		}
		s, err := midifile.Read(args[0])
		if err != nil {
			panic("Could not read midi file: " + err.Error())
		}
		if err := midifile.Write(transform.Transpose(s, shift), args[1]); err != nil {
			panic("Could not write midi file: " + err.Error())
		}
		fmt.Printf("Saved transposed midi: %v\n", args[1])
	},
}
