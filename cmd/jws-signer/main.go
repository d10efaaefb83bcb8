/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is a small command line interface to sign POST requests for the Payouts and
// Paydirect APIs. It prints a JWS with detached payload to be sent in the request's signature header.
package main

import (
	"fmt"
	"os"

	"github.com/truelayer/jws-signer/cmd/jws-signer/signcmd"
)

// Version is set at build time with -ldflags "-X main.Version=<version>".
var Version string //nolint:gochecknoglobals

func main() {
	rootCmd := signcmd.GetSignCmd(signcmd.WithVersion(Version))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)

		os.Exit(1)
	}
}
