package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Codec bool
	Pool  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Codec = boolEnv("FLUXION_DEBUG_CODEC")
	d.Pool = boolEnv("FLUXION_DEBUG_POOL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Codec reports whether FLUXION_DEBUG_CODEC is set — per-node/attribute
// trace for the v1/v2/v3 read and write paths.
func Codec() bool { return d.Codec }

// Pool reports whether FLUXION_DEBUG_POOL is set — a trace line for
// each new v2 pool entry and each new v3 data-pool entry as it is
// interned. The v3 item-table summary is traced under [Codec].
func Pool() bool { return d.Pool }

// Logf writes to stderr when enabled is true; otherwise it is a no-op.
// Callers pass [Codec] or [Pool] as enabled so the check and the call
// site read together.
func Logf(enabled bool, msg string, args ...any) {
	if !enabled {
		return
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
