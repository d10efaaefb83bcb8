/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jwsbuilder produces compact JSON Web Signatures over request payloads using an
// Elliptic Curve private key, as required for signing POST requests to the Payouts API.
//
// The protected header carries exactly the "alg" and "kid" members, serialized as
// {"alg":"ES512","kid":"<key id>"}. The signature is the JWS ECDSA encoding: r and s as
// fixed-length big-endian integers, concatenated (https://tools.ietf.org/html/rfc7518#section-3.4).
//
// ECDSA nonces are drawn from crypto/rand, so two calls with the same inputs produce
// different, equally valid, signatures. The header and payload segments are deterministic.
package jwsbuilder

import (
	"crypto/ecdsa"

	"github.com/pkg/errors"

	"github.com/truelayer/jws-signer/internal/log"
	internaljws "github.com/truelayer/jws-signer/pkg/internal/jws"
	"github.com/truelayer/jws-signer/pkg/jws"
	"github.com/truelayer/jws-signer/pkg/keyutil"
	logmodules "github.com/truelayer/jws-signer/pkg/log"
	"github.com/truelayer/jws-signer/pkg/util/ecsigner"
	"github.com/truelayer/jws-signer/pkg/util/pubkey"
)

var logger = log.New(logmodules.ModuleJWSBuilder)

var (
	// ErrInvalidKey is returned when the PEM text is malformed, is not an EC key or the key is on the wrong curve.
	ErrInvalidKey = keyutil.ErrInvalidKey

	// ErrSigningFailure is returned when the signing primitive rejects the input.
	ErrSigningFailure = errors.New("signing failure")

	// ErrMissingKeyID is returned when the key id is empty.
	ErrMissingKeyID = errors.New("key id is required")

	// ErrEmptyPayload is returned when there is nothing to sign.
	ErrEmptyPayload = errors.New("payload is empty")

	// ErrUnsupportedAlgorithm is returned when the requested algorithm is not an ECDSA JWS algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)

// Option configures the builder.
type Option func(b *Builder)

// WithAlgorithm pins the JWS algorithm (ES512 or ES256). The key must be on the
// algorithm's curve. By default the algorithm follows the key's curve.
func WithAlgorithm(alg string) Option {
	return func(b *Builder) {
		b.alg = alg
	}
}

// WithDetachedPayload makes the builder emit a JWS with detached payload (header..signature).
func WithDetachedPayload() Option {
	return func(b *Builder) {
		b.detached = true
	}
}

// WithLogger sets the logger used by the builder.
func WithLogger(l *log.Log) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// Builder builds compact JWS tokens. It holds no key material and is safe for concurrent use.
type Builder struct {
	alg      string
	detached bool
	logger   *log.Log
}

// New returns a new Builder.
func New(opts ...Option) *Builder {
	b := &Builder{logger: logger}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// BuildJWS signs payload with the EC private key in privateKeyPEM and returns the compact JWS
// <header>.<payload>.<signature> with keyID in the "kid" header.
func BuildJWS(privateKeyPEM []byte, keyID string, payload []byte, opts ...Option) (string, error) {
	return New(opts...).Build(privateKeyPEM, keyID, payload)
}

// Build signs payload with the EC private key in privateKeyPEM. The key is parsed on every call.
func (b *Builder) Build(privateKeyPEM []byte, keyID string, payload []byte) (string, error) {
	if keyID == "" {
		return "", ErrMissingKeyID
	}

	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}

	privateKey, err := keyutil.ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}

	alg, err := b.algorithm(privateKey)
	if err != nil {
		return "", err
	}

	signature, err := internaljws.NewJWS(nil, payload, ecsigner.New(privateKey, alg.Name, keyID))
	if err != nil {
		return "", errors.WithMessage(ErrSigningFailure, err.Error())
	}

	token, err := signature.SerializeCompact(b.detached)
	if err != nil {
		return "", errors.WithMessage(ErrSigningFailure, err.Error())
	}

	if b.logger.IsEnabled(log.DEBUG) {
		b.logger.Debug("Signed payload",
			log.WithKeyID(keyID), log.WithAlgorithm(alg.Name), log.WithCurve(alg.CurveName),
			log.WithPayloadSize(len(payload)), log.WithDetached(b.detached),
			log.WithThumbprint(thumbprint(&privateKey.PublicKey)))
	}

	return token, nil
}

func (b *Builder) algorithm(privateKey *ecdsa.PrivateKey) (*jws.Algorithm, error) {
	curveAlg, err := jws.AlgorithmForCurve(privateKey.Curve)
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidKey, err.Error())
	}

	if b.alg == "" {
		return curveAlg, nil
	}

	alg, err := jws.AlgorithmByName(b.alg)
	if err != nil {
		return nil, errors.WithMessage(ErrUnsupportedAlgorithm, err.Error())
	}

	if alg.Name != curveAlg.Name {
		return nil, errors.WithMessagef(ErrInvalidKey,
			"the underlying elliptic curve must be %s to sign using %s, got %s",
			alg.CurveName, alg.Name, curveAlg.CurveName)
	}

	return alg, nil
}

func thumbprint(pubKey *ecdsa.PublicKey) string {
	tp, err := pubkey.Thumbprint(pubKey)
	if err != nil {
		return ""
	}

	return tp
}
