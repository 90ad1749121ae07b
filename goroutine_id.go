package flock

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID returns an identifier for the calling goroutine, recovered by
// parsing the header line of its own stack trace ("goroutine 123 [running]:").
//
// Go has no public equivalent of std::thread::get_id(), and unlike a spawned
// std::thread, a `go` statement hands the spawner no handle at all — the new
// goroutine's identity is only observable from inside itself. flock uses
// this to let a worker register its own identity into the pool's thread map
// before entering its scheduling loop (see threadMap in pool.go), and to let
// Pool.IsOwner compare the calling goroutine against the one that
// constructed the pool. The cost of a stack walk is paid only on these
// identity checks, never on the RunQueue hot path.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[:n]

	const prefix = "goroutine "
	line = line[len(prefix):]

	if i := bytes.IndexByte(line, ' '); i >= 0 {
		line = line[:i]
	}

	id, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		// Unreachable under the documented runtime.Stack format, but a
		// worker mis-registering itself must never look like "the owner".
		panic("flock: could not parse goroutine id: " + err.Error())
	}
	return id
}
