//go:build !tinygo

package kernel

import "sync"

// The host simulator runs handlers on goroutines; one process-wide mutex
// stands in for masking interrupts.
var critical sync.Mutex

type criticalState struct{}

func enterCritical() criticalState {
	critical.Lock()
	return criticalState{}
}

func exitCritical(criticalState) { critical.Unlock() }
