package config

import "fmt"

// ConfigInitError reports a setting that has to be fixed before notes can be
// searched. Key names the offending config key when there is one.
type ConfigInitError struct {
	Key string
	msg string
}

func (e *ConfigInitError) Error() string {
	if e.Key == "" {
		return e.msg
	}
	return fmt.Sprintf("config %q %s", e.Key, e.msg)
}
