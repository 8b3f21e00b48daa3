package ioschema

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate object keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "ignore"
	}
}

// ParseOpt bundles front-end parsing options.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 means unlimited
	MaxBytes   int64 // 0 means unlimited
	// OnWarning receives issues reported at Warn severity.
	OnWarning func(Issue)
}

// DefaultMaxDepth bounds nesting when no explicit MaxDepth is set.
const DefaultMaxDepth = 512

// DefaultParseOpt rejects duplicate keys and bounds nesting depth.
func DefaultParseOpt() ParseOpt {
	return ParseOpt{
		Strictness: Strictness{OnDuplicateKey: Error},
		MaxDepth:   DefaultMaxDepth,
	}
}
