package trace

import (
	"context"
	"fmt"

	"github.com/joshuapare/vramkit/region/alloc"
)

// Options configures Replay.
type Options struct {
	// AfterStep runs after each step and its expectation check. A non-nil
	// error stops the replay and is returned wrapped with the step index.
	AfterStep func(ev Event) error
}

// Event records the outcome of one step.
type Event struct {
	Step      int
	Op        Op
	Name      string
	Size      uint32     // Requested bytes (alloc)
	Addr      alloc.Addr // Returned (alloc) or released (free) address
	Err       error
	Available uint32
	Largest   uint32 // Only measured by check steps
}

// Report is the result of a replay.
type Report struct {
	Events []Event

	// Live holds named allocations that were not freed.
	Live map[string]alloc.Addr

	Allocs   int // Successful allocations
	Frees    int // Free steps
	Failures int // Steps that returned an error
}

// Replay runs the steps of s against a in order. It stops at the first step
// whose outcome does not match its expectation (returning *MismatchError),
// at the first AfterStep error, or when ctx is done. The report covers every
// step executed, including the failing one.
func Replay(ctx context.Context, a alloc.Allocator, s *Script, opts Options) (*Report, error) {
	rep := &Report{
		Events: make([]Event, 0, len(s.Steps)),
		Live:   make(map[string]alloc.Addr),
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("trace: step %d: %w", i, err)
		}

		ev := Event{Step: i, Op: st.Op, Name: st.Name}
		switch st.Op {
		case OpAlloc:
			ev.Size = st.Size
			ev.Addr, ev.Err = a.Alloc(st.Size)
			if ev.Err == nil {
				rep.Allocs++
				if st.Name != "" {
					rep.Live[st.Name] = ev.Addr
				}
			}

		case OpFree:
			if st.Name != "" {
				// A name whose alloc failed is absent and resolves to Nil.
				ev.Addr = rep.Live[st.Name]
				delete(rep.Live, st.Name)
			} else {
				ev.Addr = *st.Addr
			}
			ev.Err = a.Free(ev.Addr)
			rep.Frees++

		case OpCheck:
			ev.Largest = a.Largest()
		}

		ev.Available = a.Available()
		if ev.Err != nil {
			rep.Failures++
		}
		rep.Events = append(rep.Events, ev)

		if err := compare(st, ev); err != nil {
			return rep, err
		}
		if opts.AfterStep != nil {
			if err := opts.AfterStep(ev); err != nil {
				return rep, fmt.Errorf("trace: step %d (%s): %w", i, st.Op, err)
			}
		}
	}

	return rep, nil
}

func compare(st Step, ev Event) error {
	want := st.Expect
	if want == nil {
		return nil
	}

	mismatch := func(field, w, g string) error {
		return &MismatchError{Step: ev.Step, Op: st.Op, Field: field, Want: w, Got: g}
	}

	if got := ErrorName(ev.Err); got != want.Error {
		return mismatch("error", orNone(want.Error), orNone(got))
	}
	if want.Addr != nil && *want.Addr != ev.Addr {
		return mismatch("addr", hex(*want.Addr), hex(ev.Addr))
	}
	if want.Available != nil && *want.Available != ev.Available {
		return mismatch("available", fmt.Sprint(*want.Available), fmt.Sprint(ev.Available))
	}
	if want.Largest != nil && *want.Largest != ev.Largest {
		return mismatch("largest", fmt.Sprint(*want.Largest), fmt.Sprint(ev.Largest))
	}
	return nil
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

func hex(v uint32) string {
	return fmt.Sprintf("%#x", v)
}
