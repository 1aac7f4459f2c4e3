package router

import (
	"errors"
	"fmt"
)

// ErrConfigurationIncomplete indicates that no agent could be resolved for a
// task by any rule. The router never guesses.
var ErrConfigurationIncomplete = errors.New("configuration incomplete")

func configurationIncomplete(task string) error {
	return fmt.Errorf("%w: no resolvable agent for task %q", ErrConfigurationIncomplete, task)
}
