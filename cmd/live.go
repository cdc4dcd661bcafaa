package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/overfield/midikeys/input"
	"github.com/overfield/midikeys/keymap"
)

var (
	livePort   int
	liveKeyMap string
)

func init() {
	liveCmd.Flags().IntVar(&livePort, "port", 0, "midi input port number")
	liveCmd.Flags().StringVar(&liveKeyMap, "keymap", "", "path to a 21-symbol key map file")
	rootCmd.AddCommand(liveCmd)
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Drives the keyboard from a live MIDI input port",
	Long:  `Drives the keyboard from a live MIDI input port. Ctrl-C stops and releases everything.`,
	Run: func(cmd *cobra.Command, args []string) {
		live()
	},
}

func live() {
	defer midi.CloseDriver()
	in, err := midi.InPort(livePort)
	if err != nil {
		fmt.Printf("Can't find midi input port %v: %v\n", livePort, err)
		return
	}

	mapping := loadMapping(liveKeyMap)
	out := input.NewSystem()
	pressed := make(map[keymap.Symbol]bool)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			s, ok := mapping.Symbol(key)
			if !ok {
				return
			}
			// re-strike if the symbol is still down
			if pressed[s] {
				out.Release([]keymap.Symbol{s})
			}
			if err := out.Press([]keymap.Symbol{s}); err != nil {
				fmt.Printf("Injection failed: %v\n", err)
				return
			}
			pressed[s] = true
		case msg.GetNoteEnd(&ch, &key):
			s, ok := mapping.Symbol(key)
			if !ok || !pressed[s] {
				return
			}
			if err := out.Release([]keymap.Symbol{s}); err != nil {
				fmt.Printf("Injection failed: %v\n", err)
				return
			}
			delete(pressed, s)
		}
	})
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}

	fmt.Printf("Listening on %v, Ctrl-C to quit\n", in)
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	<-interrupts
	stop()

	// never leave keys held
	var held []keymap.Symbol
	for s := range pressed {
		held = append(held, s)
	}
	if len(held) > 0 {
		out.Release(held)
	}
}
