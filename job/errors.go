// SPDX-License-Identifier: EPL-2.0

package job

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches any *ConfigError.
	ErrConfig = errors.New("invalid transform config")

	// ErrPath matches any *PathError.
	ErrPath = errors.New("input path outside input root")
)

// ConfigError reports an invalid option or option combination.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid transform config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// PathError reports an input that does not lie under the input root.
type PathError struct {
	Input string
	Root  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("input %q is not under root %q", e.Input, e.Root)
}

func (e *PathError) Is(target error) bool { return target == ErrPath }
