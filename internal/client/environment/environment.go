// Package environment decides which backend base URL the client talks to.
package environment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/elite/internal/client/connectivity"
	"github.com/dmitrijs2005/elite/internal/logging"
)

type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// EnvVar selects the build mode at runtime.
const EnvVar = "ELITE_ENV"

var ErrUnknownMode = errors.New("unknown environment mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Development, "dev":
		return Development, nil
	case Production, "prod":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ModeFromEnv reads EnvVar from the process environment.
func ModeFromEnv() (Mode, error) {
	return ParseMode(os.Getenv(EnvVar))
}

// LoadDotEnv merges the dotenv file at path into the process environment
// without overriding variables that are already set. A missing file is not
// an error. An empty path means ".env".
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Resolver picks the first reachable base URL from an ordered candidate list.
type Resolver struct {
	candidates []string
	checker    connectivity.Checker
	logger     logging.Logger
}

func NewResolver(candidates []string, checker connectivity.Checker, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	cs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimRight(strings.TrimSpace(c), "/"); c != "" {
			cs = append(cs, c)
		}
	}
	return &Resolver{candidates: cs, checker: checker, logger: logger}
}

// Resolve probes the candidates in order, each bounded by the checker's own
// timeout, and returns the first that answers. When none answers it returns
// the first candidate so errors downstream name a concrete address. A single
// candidate is returned without probing. With no candidates it returns "".
func (r *Resolver) Resolve(ctx context.Context) string {
	switch len(r.candidates) {
	case 0:
		return ""
	case 1:
		return r.candidates[0]
	}

	for _, c := range r.candidates {
		if ctx.Err() != nil {
			break
		}
		if r.checker.Reachable(ctx, c) {
			r.logger.Info(ctx, "backend selected", "base_url", c)
			return c
		}
		r.logger.Debug(ctx, "backend candidate unreachable", "base_url", c)
	}

	r.logger.Warn(ctx, "no backend candidate reachable, using first", "base_url", r.candidates[0])
	return r.candidates[0]
}

func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}
