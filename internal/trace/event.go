package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindHeartbeat is a periodic liveness signal.
	KindHeartbeat
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	// ScopeRun covers one orchestration of a corpus.
	ScopeRun Scope = iota + 1
	// ScopeUnit covers one test unit.
	ScopeUnit
	// ScopeStep covers one step of a unit (compile, run, compare).
	ScopeStep
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeUnit:
		return "unit"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID
	Name     string            // e.g. "run", "unit:t1.in", "diff:stdout"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
