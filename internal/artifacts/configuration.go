package artifacts

import "strings"

const (
	extensionsConfigurationKeySuffix = ".extensions"
	printConfigurationKeySuffix      = ".print"
)

var defaultArtifactExtensionsValue = []string{".pyc"}

// CommandConfiguration captures persistent settings for the delete-pyc command.
type CommandConfiguration struct {
	Extensions []string `mapstructure:"extensions"`
	Recursive  bool     `mapstructure:"recursive"`
	Print      bool     `mapstructure:"print"`
}

// DefaultCommandConfiguration returns baseline configuration values for the delete-pyc command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Extensions: append([]string{}, defaultArtifactExtensionsValue...),
		Print:      true,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + extensionsConfigurationKeySuffix: append([]string{}, defaultArtifactExtensionsValue...),
		configurationKeyPrefix + printConfigurationKeySuffix:      true,
	}
}

// sanitize trims whitespace and drops empty extension entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	extensions := make([]string, 0, len(configuration.Extensions))
	for index := range configuration.Extensions {
		trimmed := strings.TrimSpace(configuration.Extensions[index])
		if len(trimmed) == 0 {
			continue
		}
		extensions = append(extensions, trimmed)
	}
	sanitized.Extensions = extensions
	return sanitized
}
