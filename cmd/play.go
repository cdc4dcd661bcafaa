package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/input"
	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/player"
	"github.com/overfield/midikeys/score"
)

var (
	playFrom       float64
	playTo         float64
	playKeyMap     string
	playNoPriority bool
)

func init() {
	playCmd.Flags().Float64Var(&playFrom, "from", -1, "clip start in seconds")
	playCmd.Flags().Float64Var(&playTo, "to", -1, "clip end in seconds")
	playCmd.Flags().StringVar(&playKeyMap, "keymap", "", "path to a 21-symbol key map file")
	playCmd.Flags().BoolVar(&playNoPriority, "no-priority", false, "skip the best-effort priority elevation")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file.mid>",
	Short: "Plays a MIDI file on the keyboard",
	Long:  `Plays a MIDI file on the keyboard. Ctrl-C stops and releases everything.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		play(args[0])
	},
}

func clipWindow() score.Window {
	var w score.Window
	if playFrom >= 0 {
		w.Min = playFrom
		w.HasMin = true
	}
	if playTo >= 0 {
		w.Max = playTo
		w.HasMax = true
	}
	return w
}

func play(path string) {
	s, err := midifile.Read(path)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}

	events, err := score.Events(s, clipWindow())
	if err != nil {
		panic("Could not compile midi file: " + err.Error())
	}
	if len(events) == 0 {
		fmt.Println("Nothing to play in the selected window")
		return
	}
	groups := score.Partition(events)

	total, err := score.TotalLength(s)
	if err != nil {
		panic("Could not compute length: " + err.Error())
	}

	stop := player.NewStopSignal()
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		stop.Stop()
	}()
	defer signal.Stop(interrupts)

	p := player.New(loadMapping(playKeyMap), input.NewSystem())
	opts := player.Options{
		RaisePriority: !playNoPriority,
		Progress: func(elapsed float64) {
			fmt.Printf("\r%7.2f / %.2f s", elapsed, total)
		},
	}
	err = p.Play(groups, stop, opts)
	fmt.Println()
	if err != nil {
		panic("Playback failed: " + err.Error())
	}
	if stop.Stopped() {
		fmt.Println("Stopped")
	}
}
