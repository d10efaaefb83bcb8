/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/truelayer/jws-signer/pkg/jws"
)

// JSONWebSignature defines JSON Web Signature (https://tools.ietf.org/html/rfc7515)
type JSONWebSignature struct {
	ProtectedHeaders jws.Headers
	Payload          []byte

	signature []byte
}

// Signer defines JWS Signer interface. It makes signing of data and provides custom JWS headers relevant to the signer.
type Signer interface {
	// Sign signs.
	Sign(data []byte) ([]byte, error)

	// Headers provides JWS headers. "alg" header must be provided (see https://tools.ietf.org/html/rfc7515#section-4.1)
	Headers() jws.Headers
}

// NewJWS creates JSON Web Signature. Signer headers take precedence over the supplied protected headers.
func NewJWS(protectedHeaders jws.Headers, payload []byte, signer Signer) (*JSONWebSignature, error) {
	headers := mergeHeaders(protectedHeaders, signer.Headers())

	if _, ok := headers[jws.HeaderAlgorithm]; !ok {
		return nil, fmt.Errorf("check JOSE headers: %s JWS header is not defined", jws.HeaderAlgorithm)
	}

	b64Headers, err := encodeHeaders(headers)
	if err != nil {
		return nil, fmt.Errorf("serialize JWS headers: %w", err)
	}

	signature, err := signer.Sign(signingInput(b64Headers, payload))
	if err != nil {
		return nil, fmt.Errorf("sign JWS verification data: %w", err)
	}

	return &JSONWebSignature{
		ProtectedHeaders: headers,
		Payload:          payload,
		signature:        signature,
	}, nil
}

// SerializeCompact makes JWS Compact Serialization (https://tools.ietf.org/html/rfc7515#section-7.1).
// A detached JWS leaves the payload segment empty (https://tools.ietf.org/html/rfc7515#appendix-F).
func (s JSONWebSignature) SerializeCompact(detached bool) (string, error) {
	b64Headers, err := encodeHeaders(s.ProtectedHeaders)
	if err != nil {
		return "", fmt.Errorf("marshal JWS JOSE Headers: %w", err)
	}

	b64Payload := ""
	if !detached {
		b64Payload = base64.RawURLEncoding.EncodeToString(s.Payload)
	}

	b64Signature := base64.RawURLEncoding.EncodeToString(s.signature)

	return fmt.Sprintf("%s.%s.%s",
		b64Headers,
		b64Payload,
		b64Signature), nil
}

func mergeHeaders(h1, h2 jws.Headers) jws.Headers {
	h := make(jws.Headers, len(h1)+len(h2))

	for k, v := range h1 {
		h[k] = v
	}

	for k, v := range h2 {
		h[k] = v
	}

	return h
}

// encodeHeaders serializes headers with sorted keys, no insignificant whitespace and
// string values kept verbatim (no HTML escaping), then base64url encodes them.
func encodeHeaders(headers jws.Headers) (string, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(headers); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func signingInput(b64Headers string, payload []byte) []byte {
	return []byte(b64Headers + "." + base64.RawURLEncoding.EncodeToString(payload))
}
