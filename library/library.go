// Package library keeps the uploaded-song catalog: MIDI files in an
// uploads directory plus a songs.json index, saved with a debounce so
// upload bursts don't hammer the disk.
package library

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/overfield/midikeys/constants"
	"github.com/overfield/midikeys/model"
	"github.com/overfield/midikeys/util"
)

var (
	ErrNotFound        = errors.New("music not found")
	ErrWrongPassword   = errors.New("invalid delete password")
	ErrDuplicateUpload = errors.New("a file with the same hash already exists")
)

type Library struct {
	dir string

	mu    sync.Mutex
	songs map[string]model.Song // hash -> song

	scheduleSave func(f func())
}

// Open loads (or creates) the library rooted at dir.
func Open(dir string) (*Library, error) {
	if err := os.MkdirAll(filepath.Join(dir, "uploads"), 0777); err != nil {
		return nil, fmt.Errorf("could not create library dir: %w", err)
	}

	l := &Library{
		dir:          dir,
		songs:        make(map[string]model.Song),
		scheduleSave: debounce.New(2 * time.Second),
	}

	dat, err := os.ReadFile(filepath.Join(dir, constants.DBFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("could not read %v: %w", constants.DBFileName, err)
	}
	if err := json.Unmarshal(dat, &l.songs); err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", constants.DBFileName, err)
	}
	return l, nil
}

func (l *Library) flush() {
	l.mu.Lock()
	dat, err := json.MarshalIndent(l.songs, "", "    ")
	l.mu.Unlock()
	if err != nil {
		fmt.Printf("Could not encode song db: %v\n", err)
		return
	}
	if err := os.WriteFile(filepath.Join(l.dir, constants.DBFileName), dat, 0666); err != nil {
		fmt.Printf("Could not save song db: %v\n", err)
	}
}

// Close writes any pending index changes immediately.
func (l *Library) Close() {
	l.flush()
}

// Hash returns the canonical content hash used as the song id.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// uniqueName appends (1), (2), ... until the name is free in uploads.
func (l *Library) uniqueName(name string) string {
	name = strings.TrimPrefix(name, "primary:")
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(l.dir, "uploads", candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%v(%v)%v", base, counter, ext)
	}
}

// Add stores a new song. The caller supplies the duration so the
// library stays ignorant of MIDI parsing.
func (l *Library) Add(name, uploadBy, deletePassword string, data []byte, durationMs int64) (model.Song, error) {
	hash := Hash(data)

	l.mu.Lock()
	if _, ok := l.songs[hash]; ok {
		l.mu.Unlock()
		return model.Song{}, ErrDuplicateUpload
	}
	l.mu.Unlock()

	fileName := l.uniqueName(name)
	if err := os.WriteFile(filepath.Join(l.dir, "uploads", fileName), data, 0666); err != nil {
		return model.Song{}, fmt.Errorf("could not store upload: %w", err)
	}

	song := model.Song{
		Name:           fileName,
		UploadBy:       uploadBy,
		DurationMs:     durationMs,
		FileSize:       int64(len(data)),
		Hash:           hash,
		UploadedAt:     time.Now().UnixMilli(),
		DeletePassword: deletePassword,
	}

	l.mu.Lock()
	l.songs[hash] = song
	l.mu.Unlock()
	l.scheduleSave(l.flush)
	return song, nil
}

// Delete removes a song after checking its delete password.
func (l *Library) Delete(hash, password string) error {
	l.mu.Lock()
	song, ok := l.songs[hash]
	if !ok {
		l.mu.Unlock()
		return ErrNotFound
	}
	if song.DeletePassword != password {
		l.mu.Unlock()
		return ErrWrongPassword
	}
	delete(l.songs, hash)
	l.mu.Unlock()

	os.Remove(filepath.Join(l.dir, "uploads", song.Name))
	l.scheduleSave(l.flush)
	return nil
}

// Get looks a song up by hash.
func (l *Library) Get(hash string) (model.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.songs[hash]
	return s, ok
}

// Path returns the on-disk location of a stored song.
func (l *Library) Path(hash string) (string, bool) {
	s, ok := l.Get(hash)
	if !ok {
		return "", false
	}
	return filepath.Join(l.dir, "uploads", s.Name), true
}

// sorted returns every song newest-first.
func (l *Library) sorted() []model.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]model.Song, 0, len(l.songs))
	for _, s := range l.songs {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].UploadedAt != res[j].UploadedAt {
			return res[i].UploadedAt > res[j].UploadedAt
		}
		return res[i].Hash < res[j].Hash
	})
	return res
}

// List pages through the catalog newest-first.
func (l *Library) List(page, pageSize int) (total int, songs []model.Song) {
	all := l.sorted()
	total = len(all)

	start := (page - 1) * pageSize
	if start >= total {
		return total, []model.Song{}
	}
	end := util.Min(start+pageSize, total)

	for _, s := range all[start:end] {
		songs = append(songs, s.Public())
	}
	return total, songs
}

// Search matches song names case-insensitively: every token of the
// query has to appear somewhere in the name.
func (l *Library) Search(name string) []model.Song {
	tokens := strings.Fields(strings.ToLower(name))
	if len(tokens) == 0 {
		return nil
	}

	var res []model.Song
	for _, s := range l.sorted() {
		candidate := strings.ToLower(strings.TrimSuffix(s.Name, filepath.Ext(s.Name)))
		matched := true
		for _, tok := range tokens {
			if !strings.Contains(candidate, tok) {
				matched = false
				break
			}
		}
		if matched {
			res = append(res, s.Public())
		}
	}
	return res
}

// Random picks an arbitrary song, used for the "*" search.
func (l *Library) Random() (model.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.songs) == 0 {
		return model.Song{}, false
	}
	keys := util.GetKeys(l.songs)
	sort.Strings(keys)
	return l.songs[keys[rand.Intn(len(keys))]].Public(), true
}
