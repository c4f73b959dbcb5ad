package config

import (
	"fmt"
	"os"
)

const (
	warnInvalidEnvValueFmt = "config: ignoring invalid value for %s (%q), using default"
)

type messageBuilders struct {
	invalidEnvValue func(key, value string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		invalidEnvValue: func(key, value string) string {
			return fmt.Sprintf(warnInvalidEnvValueFmt, key, value)
		},
	}
}

var messages = newMessageBuilders()

// logInvalid runs before the structured logger exists, so it writes to stderr.
func logInvalid(key, value string) {
	fmt.Fprintln(os.Stderr, messages.invalidEnvValue(key, value))
}
