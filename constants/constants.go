package constants

import "os"

// GetLibraryDir is where uploaded songs and songs.json live.
func GetLibraryDir() string {
	path := os.Getenv("MIDIKEYS_LIBRARY")
	if path != "" {
		return path
	}
	return "./library"
}

// GetKeyMapPath points at an optional 21-symbol key map override.
// Empty means the built-in three-row table.
func GetKeyMapPath() string {
	return os.Getenv("MIDIKEYS_KEYMAP")
}

func GetListenAddr() string {
	addr := os.Getenv("MIDIKEYS_ADDR")
	if addr != "" {
		return addr
	}
	return ":1200"
}

// MaxUploadSize caps uploaded MIDI files at 1MB.
const MaxUploadSize = 1048576

const DBFileName = "songs.json"
