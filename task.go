package flock

// Task is the opaque unit of work the pool schedules. A nil Task is its
// empty sentinel value — RunQueue and overflowQueue both decide occupancy
// from slot/element state, never from inspecting the payload, so a nil
// Task is never mistaken for "no task obtained" versus "a task that does
// nothing"; it is simply never stored in an occupied slot.
//
// Tasks are assumed to handle their own errors, or to trap and let Async's
// Future carry the panic to whoever calls Future.Get — see future.go.
type Task = func()
