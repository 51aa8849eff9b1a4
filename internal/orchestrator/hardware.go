package orchestrator

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Hardware describes the machine a benchmark ran on.
type Hardware struct {
	OS       string `json:"os"`
	CPU      string `json:"cpu"`
	MemoryMB int64  `json:"memoryMB"`
	Runtime  string `json:"runtime"`
}

// DetectHardware captures a best-effort descriptor of the local machine.
func DetectHardware() Hardware {
	return Hardware{
		OS:       runtime.GOOS,
		CPU:      fmt.Sprintf("%s x%d", runtime.GOARCH, runtime.NumCPU()),
		MemoryMB: totalMemoryMB(),
		Runtime:  runtime.Version(),
	}
}

// totalMemoryMB reads total memory from /proc/meminfo. Returns 0 on
// platforms without it; the descriptor is informational only.
func totalMemoryMB() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}
