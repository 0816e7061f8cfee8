//go:build !linux

package web

func snapshotDisk(_ string) *DiskSnapshot { return nil }

func snapshotNetwork() *NetworkSnapshot { return nil }
