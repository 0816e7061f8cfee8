package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"time"

	"gnssview/internal/stream"
)

//go:embed assets/*
var uiAssets embed.FS

type plotsResponse struct {
	NowUTC string         `json:"now_utc"`
	Plots  map[string]any `json:"plots"`
}

func Handler(status *Status, ctl Controller, settings SettingsStore, logs *LogBuffer, events *Broadcaster) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, status.Snapshot(time.Now().UTC()))
	})

	mux.HandleFunc("/api/plots", func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodGet) {
			return
		}
		resp := plotsResponse{
			NowUTC: time.Now().UTC().Format(time.RFC3339Nano),
			Plots:  map[string]any{},
		}
		if ctl != nil {
			if snaps := ctl.PlotSnapshots(); snaps != nil {
				resp.Plots = snaps
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/rewind", func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodPost) {
			return
		}
		if ctl == nil {
			http.Error(w, "rewind unavailable", http.StatusNotFound)
			return
		}
		switch err := ctl.Rewind(); {
		case err == nil:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{\"ok\":true}\n"))
		case errors.Is(err, stream.ErrNotFile):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	})

	// Settings round-trip the YAML config.
	mux.Handle("/api/settings", settings.Handler())
	mux.Handle("/api/about", AboutHandler(status))
	if events != nil {
		mux.Handle("/api/events", EventsHandler(events))
	}
	if logs != nil {
		mux.Handle("/api/logs", logs.Handler())
	}

	mountUI(mux, status)
	return mux
}

// mountUI serves the embedded dashboard: real files under /assets/, the
// shell page for / and anything else outside /api/ and /assets/.
func mountUI(mux *http.ServeMux, status *Status) {
	var shell []byte
	if assetsFS, err := fs.Sub(uiAssets, "assets"); err == nil {
		shell, _ = fs.ReadFile(assetsFS, "index.html")
		// Prevent stale UI assets during development.
		files := noStore(http.FileServer(http.FS(assetsFS)))
		mux.Handle("/assets/", http.StripPrefix("/assets/", files))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodGet) {
			return
		}
		if dir := path.Dir(r.URL.Path); r.URL.Path != "/" && (dir == "/api" || dir == "/assets") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if len(shell) == 0 {
			// Embedding failed; keep the API usable.
			snap := status.Snapshot(time.Now().UTC())
			_, _ = fmt.Fprintf(w,
				"<!doctype html><title>gnssview</title><h1>gnssview</h1><p>UI unavailable; see <a href=\"/api/status\">/api/status</a>.</p><pre>input=%s state=%s dispatched=%d</pre>\n",
				snap.Reader.Path, snap.Reader.State, snap.Reader.Dispatched)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(shell)
	})
}

func Serve(ctx context.Context, listenAddr string, status *Status, ctl Controller, settings SettingsStore, logs *LogBuffer, events *Broadcaster) error {
	if status == nil {
		status = NewStatus(ctl, "")
	}

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           Handler(status, ctl, settings, logs, events),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No write timeout: /api/events streams for the lifetime of the client.
		WriteTimeout:   0,
		IdleTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MiB
	}

	drained := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(drained)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// Shutdown owns the listener now; wait for the drain.
		<-drained
		return ctx.Err()
	}
	return err
}
