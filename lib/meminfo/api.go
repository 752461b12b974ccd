package meminfo

type MemInfo struct {
	Available     uint64
	Free          uint64
	HaveAvailable bool
	Total         uint64
}

// GetMemInfo reads memory information from /proc/meminfo.
func GetMemInfo() (*MemInfo, error) {
	return getMemInfo()
}
