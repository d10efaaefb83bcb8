/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

import (
	"crypto"
	"crypto/elliptic"
	_ "crypto/sha256" // registers crypto.SHA256
	_ "crypto/sha512" // registers crypto.SHA512
	"fmt"
)

// JWS algorithm names (https://tools.ietf.org/html/rfc7518#section-3.1).
const (
	// ES512 is the algorithm the Payouts and Paydirect APIs require.
	ES512 = "ES512"
	ES256 = "ES256"
)

// JWK curve names.
const (
	CurveP256 = "P-256"
	CurveP521 = "P-521"
)

const (
	p256KeySize = 32
	p521KeySize = 66
)

// Algorithm binds a JWS ECDSA algorithm to its curve, hash and coordinate size.
type Algorithm struct {
	Name      string
	CurveName string
	Curve     elliptic.Curve
	Hash      crypto.Hash
	KeySize   int
}

// SignatureSize returns the length of the r||s signature.
func (a *Algorithm) SignatureSize() int {
	return 2 * a.KeySize
}

// Algorithms returns the supported ECDSA algorithms.
func Algorithms() []*Algorithm {
	return []*Algorithm{
		{Name: ES512, CurveName: CurveP521, Curve: elliptic.P521(), Hash: crypto.SHA512, KeySize: p521KeySize},
		{Name: ES256, CurveName: CurveP256, Curve: elliptic.P256(), Hash: crypto.SHA256, KeySize: p256KeySize},
	}
}

// AlgorithmByName returns the algorithm with the given JWS name.
func AlgorithmByName(name string) (*Algorithm, error) {
	for _, alg := range Algorithms() {
		if alg.Name == name {
			return alg, nil
		}
	}

	return nil, fmt.Errorf("unsupported algorithm '%s'", name)
}

// AlgorithmForCurve returns the algorithm that signs with keys on the given curve.
func AlgorithmForCurve(curve elliptic.Curve) (*Algorithm, error) {
	if curve == nil {
		return nil, fmt.Errorf("curve is not provided")
	}

	for _, alg := range Algorithms() {
		if alg.Curve == curve {
			return alg, nil
		}
	}

	return nil, fmt.Errorf("unsupported elliptic curve '%s'", curve.Params().Name)
}
