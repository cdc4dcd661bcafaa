package model

// Song is one entry of the local song library. DeletePassword is
// persisted in songs.json but stripped from every response.
type Song struct {
	Name           string `json:"name"`
	UploadBy       string `json:"upload_by"`
	DurationMs     int64  `json:"duration"`
	FileSize       int64  `json:"file_size"`
	Hash           string `json:"hash"`
	UploadedAt     int64  `json:"uploaded_at"`
	DeletePassword string `json:"delete_password,omitempty"`
}

// Public returns the song with its delete password stripped.
func (s Song) Public() Song {
	s.DeletePassword = ""
	return s
}
