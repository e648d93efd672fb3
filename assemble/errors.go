package assemble

import "fmt"

// Kind classifies a pipeline failure (spec.md §7 "Error kinds"). It is
// module-local rather than reusing github.com/grailbio/base/errors.Kind,
// since that package's Kind enumeration is scoped to its own I/O and
// authentication failure modes and has no member for any of these.
type Kind int

const (
	// KindConfiguration: invalid options/path/mode, raised before any
	// heavy work.
	KindConfiguration Kind = iota
	// KindInput: unreadable/invalid read data. Individual bad reads are
	// counted and discarded (see Stats); KindInput at the Run level means
	// zero reads remained after filtering.
	KindInput
	// KindResource: memory allocation or large-table setup failure.
	KindResource
	// KindInvariant: an internal assertion failed (e.g. strand symmetry
	// broke); indicates a bug, not a bad input.
	KindInvariant
	// KindTimeout: a context deadline fired during interactive subgraph
	// extraction (readgraph.ExtractLocalSubgraph).
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInput:
		return "input"
	case KindResource:
		return "resource"
	case KindInvariant:
		return "invariant"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ExitCode maps Kind to the process exit code of spec.md §6 ("Exit codes:
// 0 success; 1 invalid options; 2 runtime error or out-of-memory; 3 other
// standard exception; 4 unknown").
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 1
	case KindResource:
		return 2
	case KindInvariant, KindInput, KindTimeout:
		return 3
	default:
		return 4
	}
}

// Error is the single error type Run returns, carrying a Kind so
// cmd/bio-assemble/main.go can compute the right exit code without
// re-parsing an error string.
type Error struct {
	Kind Kind
	Op   string // the phase or option that failed, e.g. "assemble.Validate: k"
	Err  error  // underlying error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an *Error, the module's sole error constructor.
func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ExitCode computes the process exit code for any error returned by Run
// (spec.md §6). A nil error is success (0); a non-*Error is classified
// KindInvariant's code, since everything this package returns is wrapped
// through newError except truly unexpected panics recovered at the top.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(*Error); ok {
		return e.Kind.ExitCode()
	}
	return KindInvariant.ExitCode()
}
