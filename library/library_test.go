package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndGet(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	data := []byte("midi bytes")
	song, err := l.Add("song.mid", "alice", "pw", data, 1500)
	assert.NoError(err)
	assert.Equal("song.mid", song.Name)
	assert.Equal(Hash(data), song.Hash)
	assert.Equal(int64(len(data)), song.FileSize)
	assert.Equal(int64(1500), song.DurationMs)

	got, ok := l.Get(song.Hash)
	assert.True(ok)
	assert.Equal(song, got)

	path, ok := l.Path(song.Hash)
	assert.True(ok)
	stored, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal(data, stored)
}

func TestAddRejectsDuplicateContent(t *testing.T) {
	l, err := Open(t.TempDir())
	assert.NoError(t, err)

	data := []byte("same bytes")
	_, err = l.Add("one.mid", "", "", data, 0)
	assert.NoError(t, err)
	_, err = l.Add("two.mid", "", "", data, 0)
	assert.Equal(t, ErrDuplicateUpload, err)
}

func TestAddUniquesCollidingNames(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	first, err := l.Add("song.mid", "", "", []byte("aaa"), 0)
	assert.NoError(err)
	second, err := l.Add("song.mid", "", "", []byte("bbb"), 0)
	assert.NoError(err)

	assert.Equal("song.mid", first.Name)
	assert.Equal("song(1).mid", second.Name)
}

func TestDelete(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	song, err := l.Add("song.mid", "", "secret", []byte("aaa"), 0)
	assert.NoError(err)

	assert.Equal(ErrNotFound, l.Delete("nope", "secret"))
	assert.Equal(ErrWrongPassword, l.Delete(song.Hash, "wrong"))

	path, _ := l.Path(song.Hash)
	assert.NoError(l.Delete(song.Hash, "secret"))
	_, ok := l.Get(song.Hash)
	assert.False(ok)
	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err))
}

func TestListPagesNewestFirst(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	for _, name := range []string{"a.mid", "b.mid", "c.mid"} {
		_, err := l.Add(name, "", "pw", []byte(name), 0)
		assert.NoError(err)
	}

	total, songs := l.List(1, 2)
	assert.Equal(3, total)
	assert.Len(songs, 2)
	// public listings never leak the delete password
	for _, s := range songs {
		assert.Empty(s.DeletePassword)
	}

	total, songs = l.List(2, 2)
	assert.Equal(3, total)
	assert.Len(songs, 1)

	total, songs = l.List(3, 2)
	assert.Equal(3, total)
	assert.Empty(songs)
}

func TestSearchMatchesEveryToken(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	_, err = l.Add("Moonlight Sonata.mid", "", "", []byte("aaa"), 0)
	assert.NoError(err)
	_, err = l.Add("Clair de Lune.mid", "", "", []byte("bbb"), 0)
	assert.NoError(err)

	res := l.Search("moonlight")
	assert.Len(res, 1)
	assert.Equal("Moonlight Sonata.mid", res[0].Name)

	res = l.Search("sonata moonlight")
	assert.Len(res, 1)

	res = l.Search("moonlight lune")
	assert.Empty(res)

	// the extension is not searchable
	res = l.Search("mid")
	assert.Empty(res)
}

func TestRandom(t *testing.T) {
	l, err := Open(t.TempDir())
	assert := assert.New(t)
	assert.NoError(err)

	_, ok := l.Random()
	assert.False(ok)

	added, err := l.Add("only.mid", "", "", []byte("aaa"), 0)
	assert.NoError(err)
	got, ok := l.Random()
	assert.True(ok)
	assert.Equal(added.Name, got.Name)
	assert.Empty(got.DeletePassword)
}

func TestCloseThenReopenKeepsIndex(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	assert := assert.New(t)
	assert.NoError(err)

	song, err := l.Add("song.mid", "bob", "pw", []byte("aaa"), 1200)
	assert.NoError(err)
	l.Close()

	_, err = os.Stat(filepath.Join(dir, "songs.json"))
	assert.NoError(err)

	reopened, err := Open(dir)
	assert.NoError(err)
	got, ok := reopened.Get(song.Hash)
	assert.True(ok)
	assert.Equal(song, got)
}
