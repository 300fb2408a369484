package entry

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/roach88/idsgo/internal/coordinate"
)

// DisableValidateEnv turns off validation on Put when set to a true value.
const DisableValidateEnv = "IDSGO_DISABLE_VALIDATE"

type config struct {
	logger   *slog.Logger
	validate bool
	coords   []coordinate.Option
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default(), validate: !disabledByEnv()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func disabledByEnv() bool {
	v, err := strconv.ParseBool(os.Getenv(DisableValidateEnv))
	return err == nil && v
}

// Option configures an Entry.
type Option func(*config)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithValidation turns coordinate validation on Put on or off. It
// overrides IDSGO_DISABLE_VALIDATE.
func WithValidation(on bool) Option {
	return func(c *config) { c.validate = on }
}

// WithCoordinateOptions passes options to the validator, such as a tie
// break or quirks.
func WithCoordinateOptions(opts ...coordinate.Option) Option {
	return func(c *config) { c.coords = append(c.coords, opts...) }
}
