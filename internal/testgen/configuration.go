package testgen

const (
	authorConfigurationKeySuffix = ".author"
	outputConfigurationKeySuffix = ".output"
	defaultAuthorValue           = "unknown"
	defaultOutputFolderValue     = "tests"
)

// CommandConfiguration captures persistent settings for the write-tests command.
type CommandConfiguration struct {
	Author         string   `mapstructure:"author"`
	Output         string   `mapstructure:"output"`
	Exclude        []string `mapstructure:"exclude"`
	Recursive      bool     `mapstructure:"recursive"`
	Classification bool     `mapstructure:"classification"`
}

// DefaultCommandConfiguration returns baseline configuration values for the write-tests command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Author: defaultAuthorValue,
		Output: defaultOutputFolderValue,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + authorConfigurationKeySuffix: defaultAuthorValue,
		configurationKeyPrefix + outputConfigurationKeySuffix: defaultOutputFolderValue,
	}
}

// sanitize applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if len(sanitized.Author) == 0 {
		sanitized.Author = defaultAuthorValue
	}
	if len(sanitized.Output) == 0 {
		sanitized.Output = defaultOutputFolderValue
	}
	return sanitized
}
