package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/overfield/midikeys/constants"
	"github.com/overfield/midikeys/input"
	"github.com/overfield/midikeys/library"
	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/model"
	"github.com/overfield/midikeys/player"
	"github.com/overfield/midikeys/score"
)

var (
	lib         *library.Library
	servePlayer *player.Player

	sessionsMu sync.Mutex
	sessions   map[string]*playSession
	active     *playSession
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the song library and playback control server",
	Long:  `Runs the song library and playback control server`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// InitServe wires the handlers' shared state. Split out so tests can
// point the server at a scratch library and a recording dispatcher.
func InitServe(dir string, out input.Dispatcher) error {
	l, err := library.Open(dir)
	if err != nil {
		return err
	}
	lib = l
	servePlayer = player.New(loadMapping(""), out)
	sessions = make(map[string]*playSession)
	active = nil
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func writeUploadResult(w http.ResponseWriter, succeed bool, msg string) {
	json.NewEncoder(w).Encode(model.UploadResponse{Succeed: succeed, Message: msg})
}

func HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize + 4096); err != nil {
		writeError(w, 400, "Could not parse upload: "+err.Error())
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, 400, "Missing file field: "+err.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, 400, "Could not read upload: "+err.Error())
		return
	}
	if len(data) > constants.MaxUploadSize {
		writeUploadResult(w, false, "File size exceeds the maximum limit of 1MB.")
		return
	}

	s, err := midifile.Parse(data)
	if err != nil {
		writeError(w, 400, "Failed to process MIDI file: "+err.Error())
		return
	}
	total, err := score.TotalLength(s)
	if err != nil {
		writeError(w, 400, "Failed to process MIDI file: "+err.Error())
		return
	}

	name := header.Filename
	if name == "" {
		name = "untitled.mid"
	}
	song, err := lib.Add(name, r.FormValue("upload_by"), r.FormValue("delete_password"), data, int64(total*1000))
	if err != nil {
		writeUploadResult(w, false, err.Error())
		return
	}
	writeUploadResult(w, true, fmt.Sprintf("File '%v' uploaded successfully.", song.Name))
}

func HandleSongs(w http.ResponseWriter, r *http.Request) {
	page := 1
	pageSize := 20
	fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
	fmt.Sscanf(r.URL.Query().Get("page_size"), "%d", &pageSize)
	if page < 1 || pageSize < 1 {
		writeError(w, 400, "page and page_size must be positive")
		return
	}

	total, songs := lib.List(page, pageSize)
	if songs == nil {
		songs = []model.Song{}
	}
	json.NewEncoder(w).Encode(model.SongListResponse{
		TotalPages: (total + pageSize - 1) / pageSize,
		Count:      total,
		Midis:      songs,
	})
}

func HandleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	if name == "*" {
		song, ok := lib.Random()
		if !ok {
			json.NewEncoder(w).Encode(model.SearchResponse{Message: "No songs found", Results: []model.Song{}})
			return
		}
		json.NewEncoder(w).Encode(model.SearchResponse{Message: "random 1 song", Results: []model.Song{song}})
		return
	}

	results := lib.Search(name)
	if len(results) == 0 {
		json.NewEncoder(w).Encode(model.SearchResponse{Message: "No songs found", Results: []model.Song{}})
		return
	}
	json.NewEncoder(w).Encode(model.SearchResponse{
		Message: fmt.Sprintf("Found %v songs", len(results)),
		Results: results,
	})
}

func HandleDownload(w http.ResponseWriter, r *http.Request) {
	hash := r.URL.Query().Get("hash")
	song, ok := lib.Get(hash)
	if !ok {
		writeError(w, 404, "Music not found.")
		return
	}
	path, _ := lib.Path(hash)
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%v", song.Name))
	http.ServeFile(w, r, path)
}

func HandleDelete(w http.ResponseWriter, r *http.Request) {
	hash := r.FormValue("hash")
	password := r.FormValue("delete_password")
	switch err := lib.Delete(hash, password); err {
	case nil:
		writeUploadResult(w, true, "Music deleted successfully.")
	case library.ErrNotFound:
		writeUploadResult(w, false, "Music not found.")
	case library.ErrWrongPassword:
		writeUploadResult(w, false, "Invalid delete password.")
	default:
		writeError(w, 500, err.Error())
	}
}

func HandlePlay(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "Could not read request body")
		return
	}
	var req model.PlayRequestBody
	if err := json.Unmarshal(reqBody, &req); err != nil {
		writeError(w, 400, "Could not unmarshal request body: "+err.Error())
		return
	}

	path, ok := lib.Path(req.Hash)
	if !ok {
		writeError(w, 404, "Music not found.")
		return
	}
	s, err := midifile.Read(path)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	var window score.Window
	if req.From != nil {
		window.Min = *req.From
		window.HasMin = true
	}
	if req.To != nil {
		window.Max = *req.To
		window.HasMax = true
	}
	events, err := score.Events(s, window)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	groups := score.Partition(events)
	total, err := score.TotalLength(s)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	// the keyboard is a single shared output: one session at a time
	sessionsMu.Lock()
	if active != nil && active.running() {
		sessionsMu.Unlock()
		writeError(w, 409, "A session is already playing.")
		return
	}
	sess := newPlaySession(uuid.New().String())
	sessions[sess.id] = sess
	active = sess
	sessionsMu.Unlock()

	go func() {
		err := servePlayer.Play(groups, sess.stop, player.Options{
			RaisePriority: true,
			Progress:      sess.setElapsed,
		})
		if err != nil {
			log.Printf("session %v: playback failed: %v", sess.id, err)
		}
		sess.finish(err)
	}()

	json.NewEncoder(w).Encode(model.PlayResponse{SessionId: sess.id, Duration: total})
}

func HandleStop(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sessionsMu.Lock()
	sess, ok := sessions[id]
	sessionsMu.Unlock()
	if !ok {
		writeError(w, 404, "Unknown session.")
		return
	}
	sess.stop.Stop()
	json.NewEncoder(w).Encode(sess.status())
}

func HandleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sessionsMu.Lock()
	sess, ok := sessions[id]
	sessionsMu.Unlock()
	if !ok {
		writeError(w, 404, "Unknown session.")
		return
	}
	json.NewEncoder(w).Encode(sess.status())
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/upload", HandleUpload).Methods("POST")
	router.HandleFunc("/songs", HandleSongs).Methods("GET")
	router.HandleFunc("/search", HandleSearch).Methods("GET")
	router.HandleFunc("/download", HandleDownload).Methods("GET")
	router.HandleFunc("/delete", HandleDelete).Methods("POST")
	router.HandleFunc("/play", HandlePlay).Methods("POST")
	router.HandleFunc("/stop/{id}", HandleStop).Methods("POST")
	router.HandleFunc("/status/{id}", HandleStatus).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() {
	if err := InitServe(constants.GetLibraryDir(), input.NewSystem()); err != nil {
		panic("Could not open library: " + err.Error())
	}
	defer lib.Close()

	addr := constants.GetListenAddr()
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, NewRouter()))
}
