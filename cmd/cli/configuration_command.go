package cli

import (
	"errors"
	"fmt"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configurationCommandUseConstant         = "config"
	configurationCommandShortConstant       = "Print the effective configuration as YAML"
	configurationFlattenErrorTemplate       = "unable to flatten configuration: %w"
	configurationEncodeErrorTemplate        = "unable to encode configuration: %w"
	configurationUnexpectedArgumentsMessage = "config does not accept positional arguments"
)

var errUnexpectedConfigurationArguments = errors.New(configurationUnexpectedArgumentsMessage)

func newConfigurationCommand(configurationProvider func() ApplicationConfiguration) *cobra.Command {
	return &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) > 0 {
				return errUnexpectedConfigurationArguments
			}
			encodedConfiguration, encodeError := renderConfiguration(configurationProvider())
			if encodeError != nil {
				return encodeError
			}
			_, writeError := command.OutOrStdout().Write(encodedConfiguration)
			return writeError
		},
	}
}

// renderConfiguration encodes the configuration with the same keys the loader reads.
func renderConfiguration(configuration ApplicationConfiguration) ([]byte, error) {
	flattenedConfiguration := map[string]any{}
	if decodeError := mapstructure.Decode(configuration, &flattenedConfiguration); decodeError != nil {
		return nil, fmt.Errorf(configurationFlattenErrorTemplate, decodeError)
	}
	encodedConfiguration, encodeError := yaml.Marshal(flattenedConfiguration)
	if encodeError != nil {
		return nil, fmt.Errorf(configurationEncodeErrorTemplate, encodeError)
	}
	return encodedConfiguration, nil
}
