package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/cncutils/bezier"
	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
	"github.com/mastercactapus/cncutils/toolpath"
	"github.com/patrickmn/go-cache"
)

const programEvents = "/events/programs"

type api struct {
	http.Handler
	cfg     Config
	dataDir string
	sse     *sse.Server
	cache   *cache.Cache
}

// programEvent announces a generated program on the event stream.
type programEvent struct {
	Kind   string `json:"kind"`
	Lines  int    `json:"lines"`
	Cached bool   `json:"cached"`
}

func newAPI(cfg Config) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		cfg:     cfg,
		dataDir: cfg.Serve.Dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
		cache: cache.New(cfg.Serve.CacheTTL, 2*cfg.Serve.CacheTTL),
	}

	fs := http.FileServer(http.Dir(a.dataDir))
	r.Methods("GET").PathPrefix("/data/").Handler(http.StripPrefix("/data", fs))
	r.Methods("PUT").PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(a.putFile)))
	r.Methods("DELETE").PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(a.deleteFile)))

	r.Methods("POST").Path("/api/{kind}").HandlerFunc(a.generate)

	r.PathPrefix("/events/").Handler(a.sse)

	return a
}

// Close shuts down the event stream.
func (a *api) Close() { a.sse.Shutdown() }

func (a *api) generate(w http.ResponseWriter, req *http.Request) {
	kind := mux.Vars(req)["kind"]

	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := kind + ":" + string(bytes.TrimSpace(data))
	cached := true
	text, ok := a.cache.Get(key)
	if !ok {
		cached = false
		prog, err := a.cfg.generate(kind, data)
		if err == errUnknownKind {
			http.NotFound(w, req)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		text = prog.String()
		a.cache.Set(key, text, cache.DefaultExpiration)
	}
	str := text.(string)

	ev, err := json.Marshal(programEvent{
		Kind:   kind,
		Lines:  strings.Count(str, "\n") + 1,
		Cached: cached,
	})
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
	} else {
		a.sse.SendMessage(programEvents, sse.SimpleMessage(string(ev)))
	}

	w.Header().Set("Content-Type", "text/plain")
	_, err = io.WriteString(w, str+"\n")
	if err != nil {
		log.Println("ERROR: write response:", err)
	}
}

var errUnknownKind = errors.New("unknown job kind")

// generate builds a program from a JSON request. Fields missing from the
// request keep the configured defaults.
func (cfg Config) generate(kind string, data []byte) (gcode.Program, error) {
	unmarshal := func(v interface{}) error {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return json.Unmarshal(data, v)
	}

	switch kind {
	case "cherrymx":
		opt := cfg.CherryMX
		if err := unmarshal(&opt); err != nil {
			return nil, err
		}
		return toolpath.CherryMX(opt)
	case "circle":
		req := struct {
			toolpath.CircleOptions
			Center coord.Point `json:"center"`
		}{CircleOptions: cfg.Circle}
		if err := unmarshal(&req); err != nil {
			return nil, err
		}
		if req.Center != nil {
			return withMode(90)(toolpath.ProfileCircleAt(req.Center, req.CircleOptions))
		}
		return withMode(91)(toolpath.ProfileCircle(req.CircleOptions))
	case "polygon":
		req := struct {
			toolpath.PolygonOptions
			Points []coord.Point `json:"points"`
		}{PolygonOptions: cfg.Polygon}
		if err := unmarshal(&req); err != nil {
			return nil, err
		}
		return withMode(91)(toolpath.ProfilePolygon(req.Points, req.PolygonOptions))
	case "drill":
		req := struct {
			toolpath.DrillOptions
			Points   []coord.Point `json:"points"`
			Absolute bool          `json:"absolute"`
		}{DrillOptions: cfg.Drill}
		if err := unmarshal(&req); err != nil {
			return nil, err
		}
		switch {
		case len(req.Points) == 0:
			return withMode(91)(toolpath.Drill(req.DrillOptions))
		case req.Absolute:
			return withMode(90)(toolpath.DrillAbsolute(req.Points, req.DrillOptions))
		}
		return withMode(91)(toolpath.DrillPoints(req.Points, req.DrillOptions))
	case "curve":
		req := struct {
			CurveConfig
			Points []coord.Point `json:"points"`
		}{CurveConfig: cfg.Curve}
		if err := unmarshal(&req); err != nil {
			return nil, err
		}
		return withMode(90)(toolpath.CurvePath(bezier.Curve(req.Points), req.Segments, req.FeedRate))
	}

	return nil, errUnknownKind
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		log.Printf("ERROR: mkdir '%s': %+v", filepath.Dir(name), err)
		http.Error(w, err.Error(), 500)
		return
	}
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
