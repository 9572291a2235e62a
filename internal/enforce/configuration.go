package enforce

import "strings"

const (
	extensionsConfigurationKeySuffix = ".extensions"
	recursiveConfigurationKeySuffix  = ".recursive"
	allExtensionsWildcardConstant    = "*"
	extensionDotPrefixConstant       = "."
)

// Default extension allow-list covering the source files the repository tracks.
var defaultExtensionsValue = []string{".m", ".py"}

// CommandConfiguration captures persistent settings for the enforce command.
type CommandConfiguration struct {
	Extensions []string `mapstructure:"extensions"`
	Skip       []string `mapstructure:"skip"`
	ListAll    bool     `mapstructure:"list_all"`
	IgnoreTabs bool     `mapstructure:"ignore_tabs"`
	Trailing   bool     `mapstructure:"trailing"`
	Execute    bool     `mapstructure:"execute"`
	Recursive  bool     `mapstructure:"recursive"`
	Workers    int      `mapstructure:"workers"`
}

// DefaultCommandConfiguration returns baseline configuration values for the enforce command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Extensions: append([]string{}, defaultExtensionsValue...),
		Recursive:  true,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + extensionsConfigurationKeySuffix: append([]string{}, defaultExtensionsValue...),
		configurationKeyPrefix + recursiveConfigurationKeySuffix:  true,
	}
}

// sanitize trims whitespace and drops empty entries from list-valued settings.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Extensions = sanitizeValues(configuration.Extensions)
	sanitized.Skip = sanitizeValues(configuration.Skip)
	return sanitized
}

func sanitizeValues(rawValues []string) []string {
	sanitized := make([]string, 0, len(rawValues))
	for index := range rawValues {
		trimmed := strings.TrimSpace(rawValues[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

// buildExtensionSet normalizes the extension allow-list into a lookup set. A
// wildcard entry disables extension filtering entirely and yields a nil set.
func buildExtensionSet(extensions []string) map[string]struct{} {
	extensionSet := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		if extension == allExtensionsWildcardConstant {
			return nil
		}
		if !strings.HasPrefix(extension, extensionDotPrefixConstant) {
			extension = extensionDotPrefixConstant + extension
		}
		extensionSet[extension] = struct{}{}
	}
	return extensionSet
}
