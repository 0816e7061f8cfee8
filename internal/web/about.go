package web

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// BuildInfo is the vcs metadata stamped into the binary. Resolved once;
// it cannot change at runtime.
type BuildInfo struct {
	Module   string `json:"module,omitempty"`
	Version  string `json:"version,omitempty"`
	Revision string `json:"revision,omitempty"`
	Modified bool   `json:"modified,omitempty"`
	VCSTime  string `json:"vcs_time,omitempty"`
}

var readBuildInfo = sync.OnceValue(func() BuildInfo {
	var out BuildInfo
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return out
	}
	out.Module = bi.Main.Path
	out.Version = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		case "vcs.time":
			out.VCSTime = s.Value
		}
	}
	return out
})

type AboutResponse struct {
	Service   string    `json:"service"`
	NowUTC    string    `json:"now_utc"`
	UptimeSec int64     `json:"uptime_sec"`
	GoVersion string    `json:"go_version"`
	Build     BuildInfo `json:"build"`
}

func AboutHandler(st *Status) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowOnly(w, r, http.MethodGet) {
			return
		}
		now := time.Now().UTC()
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, AboutResponse{
			Service:   "gnssview",
			NowUTC:    now.Format(time.RFC3339Nano),
			UptimeSec: int64(st.Uptime(now).Seconds()),
			GoVersion: runtime.Version(),
			Build:     readBuildInfo(),
		})
	})
}
