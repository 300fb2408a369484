package coordinate

import "log/slog"

// TieBreak decides which of several non-empty alternative coordinates of
// equal length is used.
type TieBreak int

const (
	// TieBreakFirstDeclared uses the alternative declared first in the
	// coordinate specifier and logs the choice at info level.
	TieBreakFirstDeclared TieBreak = iota
	// TieBreakReject fails the lookup with KindAlternatives.
	TieBreakReject
)

func (t TieBreak) String() string {
	if t == TieBreakReject {
		return "reject"
	}
	return "first-declared"
}

type config struct {
	logger   *slog.Logger
	tieBreak TieBreak
	quirks   Quirks
}

func newConfig(opts []Option) config {
	c := config{
		logger:   slog.Default(),
		tieBreak: TieBreakFirstDeclared,
		quirks:   LegacyQuirks,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures a Resolver or Validator.
type Option func(*config)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTieBreak sets the policy for equal-length alternatives.
func WithTieBreak(t TieBreak) Option {
	return func(c *config) { c.tieBreak = t }
}

// WithQuirks replaces the legacy quirk table used by the Validator.
func WithQuirks(q Quirks) Option {
	return func(c *config) { c.quirks = q }
}
