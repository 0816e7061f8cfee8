package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gnssview/internal/config"
)

// SettingsPayload is the wire form of the live-adjustable settings.
type SettingsPayload struct {
	Wait  string   `json:"wait"`
	Plots []string `json:"plots"`
}

// SettingsPayloadIn distinguishes absent fields; both are required
// (no partial updates).
type SettingsPayloadIn struct {
	Wait  *string   `json:"wait"`
	Plots *[]string `json:"plots"`
}

// decodeSettingsPost strictly decodes a settings POST body: unknown
// keys, repeated keys, and trailing data are errors. Missing or null
// fields are caught later by applySettingsPayload.
func decodeSettingsPost(body []byte) (SettingsPayloadIn, error) {
	var zero SettingsPayloadIn
	if key, dup := repeatedKey(body); dup {
		return zero, fmt.Errorf("invalid json: duplicate key %q", key)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var out SettingsPayloadIn
	if err := dec.Decode(&out); err != nil {
		return zero, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return zero, errors.New("invalid json: trailing data")
	}
	return out, nil
}

// repeatedKey reports the first top-level key that appears twice;
// encoding/json silently keeps the last value for repeats.
func repeatedKey(body []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		// Not an object; the typed decode reports that.
		return "", false
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		key, ok := tok.(string)
		if !ok {
			return "", false
		}
		if seen[key] {
			return key, true
		}
		seen[key] = true

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return "", false
		}
	}
	return "", false
}

func configToSettingsPayload(cfg config.Config) SettingsPayload {
	out := SettingsPayload{Plots: cfg.Plots.Enabled}
	if cfg.Wait != nil {
		out.Wait = cfg.Wait.String()
	}
	if out.Plots == nil {
		out.Plots = []string{}
	}
	return out
}

func applySettingsPayload(cfg *config.Config, p SettingsPayloadIn) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if p.Wait == nil {
		return errors.New("wait is required")
	}
	if p.Plots == nil {
		return errors.New("plots is required")
	}

	d, err := parseWait(*p.Wait)
	if err != nil {
		return err
	}
	w := config.Duration(d)
	cfg.Wait = &w

	// An empty list disables every plot; keep it non-nil so validation
	// does not re-apply the default.
	names := make([]string, 0, len(*p.Plots))
	for _, name := range *p.Plots {
		names = append(names, strings.TrimSpace(name))
	}
	cfg.Plots.Enabled = names
	return nil
}

func parseWait(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("wait must be non-empty")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid wait %q: %w", s, err)
	}
	if d < 0 {
		return 0, errors.New("wait must be >= 0")
	}
	return d, nil
}

type SettingsStore struct {
	ConfigPath string
	// Apply, when set, makes the validated config effective before it
	// is saved. An Apply error aborts the save.
	Apply func(cfg config.Config) error
}

func (s SettingsStore) load() (config.Config, error) {
	cfg, err := config.Load(s.ConfigPath)
	if err == nil {
		err = config.DefaultAndValidate(&cfg)
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (s SettingsStore) save(cfg config.Config) error {
	if err := config.DefaultAndValidate(&cfg); err != nil {
		return err
	}
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFileAtomic(s.ConfigPath, b)
}

// writeFileAtomic stages data in a temp file beside path and renames it
// into place, so a crash mid-write leaves the old file intact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s SettingsStore) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(s.ConfigPath) == "" {
			http.Error(w, "settings not available (no config path)", http.StatusNotImplemented)
			return
		}
		switch r.Method {
		case http.MethodGet:
			s.get(w)
		case http.MethodPost:
			s.post(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (s SettingsStore) get(w http.ResponseWriter) {
	cfg, err := s.load()
	if err != nil {
		http.Error(w, fmt.Sprintf("load failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, configToSettingsPayload(cfg))
}

func (s SettingsStore) post(w http.ResponseWriter, r *http.Request) {
	if ct := strings.TrimSpace(r.Header.Get("Content-Type")); ct != "application/json" {
		http.Error(w, "content-type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	// Small config payload; cap the read.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, fmt.Sprintf("read failed: %v", err), http.StatusBadRequest)
		return
	}
	p, err := decodeSettingsPost(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prev, err := s.load()
	if err != nil {
		http.Error(w, fmt.Sprintf("load failed: %v", err), http.StatusInternalServerError)
		return
	}

	next := prev
	if err := applySettingsPayload(&next, p); err != nil {
		http.Error(w, fmt.Sprintf("invalid settings: %v", err), http.StatusBadRequest)
		return
	}
	if err := config.DefaultAndValidate(&next); err != nil {
		http.Error(w, fmt.Sprintf("invalid config: %v", err), http.StatusBadRequest)
		return
	}

	if s.Apply != nil {
		if err := s.Apply(next); err != nil {
			http.Error(w, fmt.Sprintf("apply failed: %v", err), http.StatusBadRequest)
			return
		}
	}
	if err := s.save(next); err != nil {
		// Roll the runtime back so it matches what is on disk.
		if s.Apply != nil {
			_ = s.Apply(prev)
		}
		http.Error(w, fmt.Sprintf("save failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, configToSettingsPayload(next))
}
