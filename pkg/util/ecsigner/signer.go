/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ecsigner

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/truelayer/jws-signer/pkg/jws"
)

// Signer implements signer interface.
type Signer struct {
	alg        string
	kid        string
	privateKey *ecdsa.PrivateKey
}

// New creates new ECDSA signer.
func New(privKey *ecdsa.PrivateKey, alg, kid string) *Signer {
	return &Signer{privateKey: privKey, kid: kid, alg: alg}
}

// Headers provides required JWS protected headers. It provides information about signing key and algorithm.
func (signer *Signer) Headers() jws.Headers {
	headers := make(jws.Headers)

	if signer.alg != "" {
		headers[jws.HeaderAlgorithm] = signer.alg
	}

	if signer.kid != "" {
		headers[jws.HeaderKeyID] = signer.kid
	}

	return headers
}

// Sign signs msg and returns signature value as the concatenation of r and s,
// each left padded to the curve coordinate size (https://tools.ietf.org/html/rfc7518#section-3.4).
func (signer *Signer) Sign(msg []byte) ([]byte, error) {
	if signer.privateKey == nil {
		return nil, errors.New("private key not provided")
	}

	alg, err := signer.algorithm()
	if err != nil {
		return nil, err
	}

	hasher := alg.Hash.New()

	_, err = hasher.Write(msg)
	if err != nil {
		return nil, err
	}

	hashed := hasher.Sum(nil)

	r, s, err := ecdsa.Sign(rand.Reader, signer.privateKey, hashed)
	if err != nil {
		return nil, err
	}

	return append(copyPadded(r.Bytes(), alg.KeySize), copyPadded(s.Bytes(), alg.KeySize)...), nil
}

// algorithm resolves the configured algorithm and checks it against the key's curve.
// Without a configured algorithm the curve decides.
func (signer *Signer) algorithm() (*jws.Algorithm, error) {
	curveAlg, err := jws.AlgorithmForCurve(signer.privateKey.Curve)
	if err != nil {
		return nil, err
	}

	if signer.alg == "" {
		return curveAlg, nil
	}

	alg, err := jws.AlgorithmByName(signer.alg)
	if err != nil {
		return nil, err
	}

	if alg.Name != curveAlg.Name {
		return nil, fmt.Errorf("algorithm '%s' requires curve %s", alg.Name, alg.CurveName)
	}

	return alg, nil
}

func copyPadded(source []byte, size int) []byte {
	dest := make([]byte, size)
	copy(dest[size-len(source):], source)

	return dest
}
