/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

// IANA registered JOSE headers (https://tools.ietf.org/html/rfc7515#section-4.1)
const (
	// HeaderAlgorithm identifies the cryptographic algorithm used to secure the JWS.
	HeaderAlgorithm = "alg"

	// HeaderKeyID is a hint indicating which key was used to secure the JWS.
	HeaderKeyID = "kid"
)

// Headers represents JOSE headers.
type Headers map[string]interface{}
