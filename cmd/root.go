package cmd

import (
	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/constants"
	"github.com/overfield/midikeys/keymap"
)

var rootCmd = &cobra.Command{
	Use:   "midikeys",
	Short: "Plays MIDI files as simulated key presses",
	Long:  `Plays MIDI files by injecting simulated key presses in sync with the musical timeline.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadMapping resolves the key map: explicit path beats the env
// override beats the built-in three-row table.
func loadMapping(path string) keymap.Mapping {
	if path == "" {
		path = constants.GetKeyMapPath()
	}
	if path == "" {
		return keymap.Default()
	}
	m, err := keymap.Load(path)
	if err != nil {
		panic("Could not load key map: " + err.Error())
	}
	return m
}
