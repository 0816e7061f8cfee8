package web

import "os"

// DiskSnapshot reports space on the filesystem holding Path. When
// capture is enabled Path is the capture directory, so the dashboard
// shows how much room raw captures have left.
type DiskSnapshot struct {
	Path       string `json:"path"`
	TotalBytes uint64 `json:"total_bytes,omitempty"`
	FreeBytes  uint64 `json:"free_bytes,omitempty"`
	AvailBytes uint64 `json:"avail_bytes,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

type NetworkSnapshot struct {
	LocalAddrs []string `json:"local_addrs,omitempty"`
}

type SystemSnapshot struct {
	Hostname string           `json:"hostname,omitempty"`
	Disk     *DiskSnapshot    `json:"disk,omitempty"`
	Network  *NetworkSnapshot `json:"network,omitempty"`
}

func snapshotSystem(diskPath string) *SystemSnapshot {
	if diskPath == "" {
		diskPath = "/"
	}
	snap := &SystemSnapshot{
		Disk:    snapshotDisk(diskPath),
		Network: snapshotNetwork(),
	}
	if host, err := os.Hostname(); err == nil {
		snap.Hostname = host
	}
	if snap.Hostname == "" && snap.Disk == nil && snap.Network == nil {
		return nil
	}
	return snap
}
