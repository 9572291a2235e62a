package initgen

const (
	wrapConfigurationKeySuffix    = ".wrap"
	outfileConfigurationKeySuffix = ".outfile"
	defaultWrapColumnNumber       = 100
)

// CommandConfiguration captures persistent settings for the make-init command.
type CommandConfiguration struct {
	Lineup  bool   `mapstructure:"lineup"`
	Wrap    int    `mapstructure:"wrap"`
	Outfile string `mapstructure:"outfile"`
}

// DefaultCommandConfiguration returns baseline configuration values for the make-init command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Wrap:    defaultWrapColumnNumber,
		Outfile: initFileNameConstant,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + wrapConfigurationKeySuffix:    defaultWrapColumnNumber,
		configurationKeyPrefix + outfileConfigurationKeySuffix: initFileNameConstant,
	}
}

// sanitize applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.Wrap <= 0 {
		sanitized.Wrap = defaultWrapColumnNumber
	}
	if len(sanitized.Outfile) == 0 {
		sanitized.Outfile = initFileNameConstant
	}
	return sanitized
}
