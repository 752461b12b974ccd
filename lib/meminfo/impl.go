package meminfo

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const procMeminfo = "/proc/meminfo"

func getMemInfo() (*MemInfo, error) {
	file, err := os.Open(procMeminfo)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var memInfo MemInfo
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var name, units string
		var value uint64
		line := scanner.Text()
		nScanned, err := fmt.Sscanf(line, "%s %d %s", &name, &value, &units)
		if err != nil || nScanned < 3 {
			continue
		}
		if units != "kB" {
			continue
		}
		switch strings.TrimSuffix(name, ":") {
		case "MemAvailable":
			memInfo.Available = value << 10
			memInfo.HaveAvailable = true
		case "MemFree":
			memInfo.Free = value << 10
		case "MemTotal":
			memInfo.Total = value << 10
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if memInfo.Total < 1 {
		return nil, fmt.Errorf("no MemTotal found in %s", procMeminfo)
	}
	return &memInfo, nil
}
