/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"github.com/truelayer/jws-signer/internal/log"
)

// Module names of the loggers used by this module.
const (
	ModuleJWSBuilder = "jws-builder"
	ModuleKeyLoader  = "key-loader"
	ModuleCLI        = "jws-signer"
)

// SetLevel sets the log level for given module. Valid log levels are: fatal, panic, error, warning, info, debug.
func SetLevel(module, level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel(module, l)

	return nil
}

// GetLevel returns the log level for the given module.
func GetLevel(module string) string {
	return log.GetLevel(module).String()
}

// SetSpec sets the log levels for individual modules as well as the default log level.
// The format of the spec is as follows:
//
//	module1=level1:module2=level2:module3=level3:defaultLevel
//
// Example:
//
//	jws-builder=debug:key-loader=info:error
func SetSpec(spec string) error {
	return log.SetSpec(spec)
}

// GetSpec returns the log spec which specifies the log level of each individual module.
func GetSpec() string {
	return log.GetSpec()
}
