/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldKeyID       = "kid"
	FieldAlgorithm   = "alg"
	FieldCurve       = "curve"
	FieldPayloadSize = "payloadSize"
	FieldThumbprint  = "thumbprint"
	FieldKeyFile     = "keyFile"
	FieldDetached    = "detached"
	FieldSize        = "size"
	FieldError       = "error"
)

// WithKeyID sets the kid field.
func WithKeyID(value string) zap.Field {
	return zap.String(FieldKeyID, value)
}

// WithAlgorithm sets the alg field.
func WithAlgorithm(value string) zap.Field {
	return zap.String(FieldAlgorithm, value)
}

// WithCurve sets the curve field.
func WithCurve(value string) zap.Field {
	return zap.String(FieldCurve, value)
}

// WithPayloadSize sets the payload-size field.
func WithPayloadSize(value int) zap.Field {
	return zap.Int(FieldPayloadSize, value)
}

// WithThumbprint sets the thumbprint field.
func WithThumbprint(value string) zap.Field {
	return zap.String(FieldThumbprint, value)
}

// WithKeyFile sets the key-file field.
func WithKeyFile(value string) zap.Field {
	return zap.String(FieldKeyFile, value)
}

// WithDetached sets the detached field.
func WithDetached(value bool) zap.Field {
	return zap.Bool(FieldDetached, value)
}

// WithSize sets the size field.
func WithSize(value int) zap.Field {
	return zap.Int(FieldSize, value)
}

// WithError sets the error field.
func WithError(err error) zap.Field {
	return zap.NamedError(FieldError, err)
}
