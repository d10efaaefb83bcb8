/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keyutil

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"

	"github.com/truelayer/jws-signer/pkg/jws"
)

// PEM block types.
const (
	BlockTypeECPrivateKey    = "EC PRIVATE KEY"
	BlockTypePKCS8PrivateKey = "PRIVATE KEY"
	blockTypeECParameters    = "EC PARAMETERS"
)

// ErrInvalidKey is returned when the PEM text does not hold a usable EC private key.
var ErrInvalidKey = errors.New("invalid key")

// ParsePrivateKey parses the first private key block of PEM text into an EC private key.
// Both SEC 1 ("EC PRIVATE KEY") and PKCS #8 ("PRIVATE KEY") encodings are accepted, on the
// curves of the supported JWS algorithms. Blocks of other types preceding the key, such as
// "EC PARAMETERS", are skipped.
func ParsePrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, err := privateKeyBlock(pemBytes)
	if err != nil {
		return nil, err
	}

	var privKey *ecdsa.PrivateKey

	switch block.Type {
	case BlockTypeECPrivateKey:
		privKey, err = parseECPrivateKey(block.Bytes)
	case BlockTypePKCS8PrivateKey:
		privKey, err = parsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, errors.WithMessagef(ErrInvalidKey, "unsupported PEM block type '%s'", block.Type)
	}

	if err != nil {
		return nil, err
	}

	err = checkKey(privKey)
	if err != nil {
		return nil, err
	}

	return privKey, nil
}

func privateKeyBlock(pemBytes []byte) (*pem.Block, error) {
	rest := pemBytes

	for {
		var block *pem.Block

		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, errors.WithMessage(ErrInvalidKey, "no private key PEM block found")
		}

		if block.Type != blockTypeECParameters {
			return block, nil
		}
	}
}

func parseECPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	privKey, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, errors.WithMessagef(ErrInvalidKey, "parse EC private key: %s", err)
	}

	return privKey, nil
}

func parsePKCS8PrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.WithMessagef(ErrInvalidKey, "parse PKCS #8 private key: %s", err)
	}

	privKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.WithMessagef(ErrInvalidKey, "the private key must be an Elliptic Curve key, got %T", key)
	}

	return privKey, nil
}

// checkKey verifies the curve is supported, the private scalar lies in [1, N-1] and the public point is on the curve.
func checkKey(privKey *ecdsa.PrivateKey) error {
	if _, err := jws.AlgorithmForCurve(privKey.Curve); err != nil {
		return errors.WithMessage(ErrInvalidKey, err.Error())
	}

	params := privKey.Curve.Params()

	if privKey.D == nil || privKey.D.Sign() <= 0 || privKey.D.Cmp(params.N) >= 0 {
		return errors.WithMessage(ErrInvalidKey, "key verification failed: private scalar out of range")
	}

	if privKey.X == nil || privKey.Y == nil || !privKey.Curve.IsOnCurve(privKey.X, privKey.Y) {
		return errors.WithMessage(ErrInvalidKey, "key verification failed: public point is not on curve")
	}

	return nil
}
