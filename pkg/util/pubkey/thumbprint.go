/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pubkey

import (
	"crypto"
	"crypto/ecdsa"
	"encoding/base64"
	"errors"
	"fmt"

	gojose "github.com/square/go-jose/v3"
)

// Thumbprint computes the RFC 7638 SHA-256 JWK thumbprint of an EC public key, base64url encoded.
func Thumbprint(pubKey *ecdsa.PublicKey) (string, error) {
	if pubKey == nil || pubKey.Curve == nil || pubKey.X == nil || pubKey.Y == nil {
		return "", errors.New("invalid EC key")
	}

	jwk := &gojose.JSONWebKey{Key: pubKey}

	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("compute JWK thumbprint: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(thumbprint), nil
}
