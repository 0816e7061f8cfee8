//go:build linux

package web

import (
	"fmt"
	"net"
	"sort"
	"syscall"
)

func snapshotDisk(path string) *DiskSnapshot {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return &DiskSnapshot{Path: path, LastError: err.Error()}
	}
	bs := uint64(st.Bsize)
	return &DiskSnapshot{
		Path:       path,
		TotalBytes: st.Blocks * bs,
		FreeBytes:  st.Bfree * bs,
		AvailBytes: st.Bavail * bs,
	}
}

func snapshotNetwork() *NetworkSnapshot {
	addrs := localInterfaceAddrs()
	if len(addrs) == 0 {
		return nil
	}
	return &NetworkSnapshot{LocalAddrs: addrs}
}

// localInterfaceAddrs lists routable IPv4 addresses as "iface: addr" so
// the dashboard can show where it is reachable.
func localInterfaceAddrs() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var out []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || !routableIPv4(ipnet.IP) {
				continue
			}
			out = append(out, fmt.Sprintf("%s: %s", iface.Name, ipnet))
		}
	}
	sort.Strings(out)
	return out
}

func routableIPv4(ip net.IP) bool {
	ip4 := ip.To4()
	return ip4 != nil && !ip4.IsLoopback() && !ip4.IsLinkLocalUnicast()
}
