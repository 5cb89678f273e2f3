//go:build tinygo

package kernel

import "runtime/interrupt"

type criticalState = interrupt.State

func enterCritical() criticalState { return interrupt.Disable() }

func exitCritical(s criticalState) { interrupt.Restore(s) }
