package openrazer

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-ps"
)

// daemonExecutable is the daemon's process name as the kernel reports it,
// which is cut to 15 characters.
const daemonExecutable = "openrazer-daemo"

// DaemonRunning reports whether an openrazer-daemon process exists.
func DaemonRunning() (bool, error) {
	processes, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("failed to get process list: %w", err)
	}
	return hasDaemon(processes), nil
}

func hasDaemon(processes []ps.Process) bool {
	for _, p := range processes {
		if strings.HasPrefix(p.Executable(), daemonExecutable) {
			return true
		}
	}
	return false
}
