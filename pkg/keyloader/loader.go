/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keyloader

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/truelayer/jws-signer/internal/log"
	logmodules "github.com/truelayer/jws-signer/pkg/log"
)

var logger = log.New(logmodules.ModuleKeyLoader)

// StdinPath is the path that denotes standard input.
const StdinPath = "-"

var (
	// ErrKeyFileUnreadable is returned when the key file is missing or cannot be read.
	ErrKeyFileUnreadable = errors.New("key file unreadable")

	// ErrPayloadFileUnreadable is returned when the payload file is missing or cannot be read.
	ErrPayloadFileUnreadable = errors.New("payload file unreadable")

	// ErrInvalidArguments is returned when no path is given.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Load reads the PEM text of the private key at path. Nothing is parsed here; a file with
// the wrong content is reported later as an invalid key.
func Load(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.WithMessage(ErrInvalidArguments, "key file path is required")
	}

	pemBytes, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		logger.Debug("Failed to read key file", log.WithKeyFile(path), log.WithError(err))

		return nil, errors.WithMessagef(ErrKeyFileUnreadable, "failed to read the private key file: %s", err)
	}

	logger.Debug("Loaded key file", log.WithKeyFile(path), log.WithSize(len(pemBytes)))

	return pemBytes, nil
}

// LoadPayload reads the payload at path, or from stdin when path is "-".
func LoadPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, errors.WithMessage(ErrInvalidArguments, "payload file path is required")
	}

	if path == StdinPath {
		payload, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WithMessagef(ErrPayloadFileUnreadable, "failed to read the payload from stdin: %s", err)
		}

		return payload, nil
	}

	payload, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WithMessagef(ErrPayloadFileUnreadable, "failed to read the payload file: %s", err)
	}

	return payload, nil
}
