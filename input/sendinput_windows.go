//go:build windows

package input

import (
	"fmt"
	"unicode"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/overfield/midikeys/keymap"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard  = 1
	keyeventfKeyup = 0x0002
)

type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// winInput mirrors the Win32 INPUT struct; the trailing pad brings the
// union up to MOUSEINPUT's size.
type winInput struct {
	inputType uint32
	_         uint32
	ki        keybdInput
	_         [8]byte
}

// vkFor maps a symbol to its virtual-key code. Letters and digits map
// directly onto their uppercase code points.
func vkFor(s keymap.Symbol) uint16 {
	r := unicode.ToUpper(rune(s))
	if r > 0xff {
		return 0
	}
	return uint16(r)
}

type sendInputDispatcher struct{}

func newSystem() Dispatcher {
	return sendInputDispatcher{}
}

func (sendInputDispatcher) submit(symbols []keymap.Symbol, up bool) error {
	var inputs []winInput
	for _, s := range symbols {
		vk := vkFor(s)
		if vk == 0 {
			continue
		}
		var flags uint32
		if up {
			flags = keyeventfKeyup
		}
		inputs = append(inputs, winInput{
			inputType: inputKeyboard,
			ki:        keybdInput{wVk: vk, dwFlags: flags},
		})
	}
	if len(inputs) == 0 {
		return nil
	}

	n, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput injected %v of %v events: %v", n, len(inputs), callErr)
	}
	return nil
}

func (d sendInputDispatcher) Press(symbols []keymap.Symbol) error {
	return d.submit(symbols, false)
}

func (d sendInputDispatcher) Release(symbols []keymap.Symbol) error {
	return d.submit(symbols, true)
}
