// Command mdlserve loads one model at startup and serves its summary over
// a WebSocket: each connecting client receives a single JSON frame, then
// the server closes the connection. No rendering, no mutation, no ongoing
// stream — a read-only "ask the core a question over the network" demo.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"srcmdl"
)

type summary struct {
	Path         string        `json:"path"`
	Bones        int           `json:"bones"`
	BodyParts    int           `json:"body_parts"`
	Meshes       int           `json:"meshes"`
	Vertices     int           `json:"vertices"`
	SkinFamilies int           `json:"skin_families"`
	BBoxMin      srcmdl.Vector `json:"bbox_min"`
	BBoxMax      srcmdl.Vector `json:"bbox_max"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	path := flag.String("model", "", "model path prefix (reads <path>, <path>.vvd, <path>.dx90.vtx)")
	flag.Parse()
	if *path == "" {
		slog.Error("mdlserve: -model is required")
		os.Exit(1)
	}

	m, err := srcmdl.FromPath(*path)
	if err != nil {
		slog.Error("mdlserve: load model", "path", *path, "err", err)
		os.Exit(1)
	}

	s := buildSummary(*path, m)

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	http.HandleFunc("/model", func(w http.ResponseWriter, r *http.Request) {
		handleConn(w, r, s)
	})

	slog.Info("mdlserve: listening", "addr", port, "model", *path)
	if err := http.ListenAndServe(port, nil); err != nil {
		slog.Error("mdlserve: serve", "err", err)
		os.Exit(1)
	}
}

func buildSummary(path string, m *srcmdl.Model) summary {
	meshes, err := m.Meshes()
	if err != nil {
		slog.Warn("mdlserve: mesh join mismatch", "path", path, "err", err)
	}
	min, max := m.BoundingBox()
	return summary{
		Path:         path,
		Bones:        len(m.Mdl.Bones),
		BodyParts:    len(m.Mdl.BodyParts),
		Meshes:       len(meshes),
		Vertices:     len(m.Vertices()),
		SkinFamilies: len(m.SkinTables()),
		BBoxMin:      min,
		BBoxMax:      max,
	}
}

func handleConn(w http.ResponseWriter, r *http.Request, s summary) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("mdlserve: upgrade", "err", err)
		return
	}
	defer conn.Close()

	payload, err := json.Marshal(s)
	if err != nil {
		slog.Error("mdlserve: marshal summary", "err", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Error("mdlserve: write frame", "err", err)
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
