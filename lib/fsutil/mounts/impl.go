package mounts

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

const procMounts = "/proc/mounts"

func getMountTable() (*MountTable, error) {
	file, err := os.Open(procMounts)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	table := &MountTable{}
	for scanner.Scan() {
		line := scanner.Text()
		var junk string
		var entry MountEntry
		nScanned, err := fmt.Sscanf(line, "%s %s %s %s %s",
			&entry.Device, &entry.MountPoint, &entry.Type, &entry.Options,
			&junk)
		if err != nil {
			return nil, err
		}
		if nScanned < 4 {
			return nil, fmt.Errorf("only read %d values from %s",
				nScanned, line)
		}
		table.Entries = append(table.Entries, &entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func (mt *MountTable) findEntry(path string) *MountEntry {
	var lastMatch *MountEntry
	var lastLength int
	for _, entry := range mt.Entries {
		length := len(entry.MountPoint)
		if strings.HasPrefix(path, entry.MountPoint) && length > lastLength {
			lastMatch = entry
			lastLength = length
		}
	}
	return lastMatch
}

func (mt *MountTable) listEntriesUnder(topPath string) []*MountEntry {
	topPath = strings.TrimSuffix(topPath, "/")
	var entries []*MountEntry
	for _, entry := range mt.Entries {
		if entry.MountPoint == topPath ||
			strings.HasPrefix(entry.MountPoint, topPath+"/") {
			entries = append(entries, entry)
		}
	}
	sortDeepestFirst(entries)
	return entries
}

func (mt *MountTable) listEntriesUsing(device string) []*MountEntry {
	var entries []*MountEntry
	for _, entry := range mt.Entries {
		if entry.Device == device ||
			strings.HasPrefix(entry.Device, device) {
			entries = append(entries, entry)
		}
	}
	sortDeepestFirst(entries)
	return entries
}

func sortDeepestFirst(entries []*MountEntry) {
	sort.SliceStable(entries, func(left, right int) bool {
		return len(entries[left].MountPoint) > len(entries[right].MountPoint)
	})
}
