package mounts

// MountEntry describes one line in the kernel mount table.
type MountEntry struct {
	Device     string
	MountPoint string
	Type       string
	Options    string
}

type MountTable struct {
	Entries []*MountEntry
}

// GetMountTable reads the live kernel mount table (/proc/mounts).
func GetMountTable() (*MountTable, error) {
	return getMountTable()
}

// FindEntry returns the mount entry whose mount point is the longest prefix
// of path, or nil if no entry matches.
func (mt *MountTable) FindEntry(path string) *MountEntry {
	return mt.findEntry(path)
}

// ListEntriesUnder returns all entries mounted at or below topPath, deepest
// mount points first. This is the correct order for unmounting: children
// before parents.
func (mt *MountTable) ListEntriesUnder(topPath string) []*MountEntry {
	return mt.listEntriesUnder(topPath)
}

// ListEntriesUsing returns all entries whose device is the specified device
// or a partition of it, deepest mount points first.
func (mt *MountTable) ListEntriesUsing(device string) []*MountEntry {
	return mt.listEntriesUsing(device)
}
