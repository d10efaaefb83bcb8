/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmdutil

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// GetUserSetOptionalVarFromString returns the value of either the command line flag or the environment variable.
// The flag takes precedence; an unset variable yields the empty string.
func GetUserSetOptionalVarFromString(cmd *cobra.Command, flagName, envKey string) string {
	//nolint // the error will not happen for optional var
	v, _ := GetUserSetVarFromString(cmd, flagName, envKey, true)

	return v
}

// GetUserSetVarFromString returns the value of either the command line flag or the environment variable.
func GetUserSetVarFromString(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", errors.Wrapf(err, "%s flag not found", flagName)
		}

		if value == "" {
			return "", fmt.Errorf("%s value is empty", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		if !isOptional && value == "" {
			return "", fmt.Errorf("%s value is empty", envKey)
		}

		return value, nil
	}

	return "", fmt.Errorf("neither %s (command line flag) nor %s (environment variable) have been set", flagName, envKey)
}

// GetUserSetOptionalBool returns the boolean value of either the command line flag or the environment variable,
// falling back to the flag's default value.
func GetUserSetOptionalBool(cmd *cobra.Command, flagName, envKey string) (bool, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetBool(flagName)
		if err != nil {
			return false, errors.Wrapf(err, "%s flag not found", flagName)
		}

		return value, nil
	}

	if value, isSet := os.LookupEnv(envKey); isSet && value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.Wrapf(err, "invalid value for %s", envKey)
		}

		return b, nil
	}

	value, err := cmd.Flags().GetBool(flagName)
	if err != nil {
		return false, errors.Wrapf(err, "%s flag not found", flagName)
	}

	return value, nil
}
