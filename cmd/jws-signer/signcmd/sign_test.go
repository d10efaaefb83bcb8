/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signcmd

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/truelayer/jws-signer/pkg/jwsbuilder"
	"github.com/truelayer/jws-signer/pkg/keyloader"
)

const (
	kid  = "3b29c8f1-0c3e-4e8a-9f5a-2a1f0e0b8d11"
	body = `{"currency":"GBP","amount_in_minor":100}`
)

func TestSignCmd(t *testing.T) {
	keyFile := testFile("p521.pem")

	t.Run("ES512 and detached by default", func(t *testing.T) {
		out, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body)
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(out, "\n"))

		parts := strings.Split(strings.TrimSuffix(out, "\n"), ".")
		require.Len(t, parts, 3)
		require.Empty(t, parts[1])
		require.Equal(t, `{"alg":"ES512","kid":"`+kid+`"}`, string(decode(t, parts[0])))
		require.Len(t, decode(t, parts[2]), 132)

		signingInput := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(body))
		require.NoError(t, jwt.SigningMethodES512.Verify(signingInput, decode(t, parts[2]),
			readPublicKey(t, "p521_pub.pem")))
	})

	t.Run("attached", func(t *testing.T) {
		out, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body, "--detached=false")
		require.NoError(t, err)

		parts := strings.Split(strings.TrimSpace(out), ".")
		require.Len(t, parts, 3)
		require.Equal(t, body, string(decode(t, parts[1])))
		require.NoError(t, jwt.SigningMethodES512.Verify(parts[0]+"."+parts[1], decode(t, parts[2]),
			readPublicKey(t, "p521_pub.pem")))
	})

	t.Run("P-256 key with ES256", func(t *testing.T) {
		out, err := execute(t, nil,
			"--key", testFile("p256.pem"), "--kid", kid, "--body", body, "--alg", "ES256", "--detached=false")
		require.NoError(t, err)

		parts := strings.Split(strings.TrimSpace(out), ".")
		require.Equal(t, `{"alg":"ES256","kid":"`+kid+`"}`, string(decode(t, parts[0])))
		require.NoError(t, jwt.SigningMethodES256.Verify(parts[0]+"."+parts[1], decode(t, parts[2]),
			readPublicKey(t, "p256_pub.pem")))
	})

	t.Run("kid is printed in canonical form", func(t *testing.T) {
		out, err := execute(t, nil, "--key", keyFile, "--kid", strings.ToUpper(kid), "--body", body)
		require.NoError(t, err)

		header := decode(t, strings.Split(out, ".")[0])
		require.Contains(t, string(header), `"kid":"`+kid+`"`)
	})

	t.Run("body from stdin", func(t *testing.T) {
		out, err := execute(t, strings.NewReader(body),
			"--key", keyFile, "--kid", kid, "--body-file", "-", "--detached=false")
		require.NoError(t, err)
		require.Equal(t, body, string(decode(t, strings.Split(strings.TrimSpace(out), ".")[1])))
	})

	t.Run("body from file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

		out, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body-file", file, "--detached=false")
		require.NoError(t, err)
		require.Equal(t, body, string(decode(t, strings.Split(strings.TrimSpace(out), ".")[1])))
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv(keyEnvKey, testFile("p256.pem"))
		t.Setenv(kidEnvKey, kid)
		t.Setenv(bodyEnvKey, body)
		t.Setenv(detachedEnvKey, "false")
		t.Setenv(algEnvKey, "ES256")

		out, err := execute(t, nil)
		require.NoError(t, err)

		parts := strings.Split(strings.TrimSpace(out), ".")
		require.Len(t, parts, 3)
		require.NotEmpty(t, parts[1])
		require.Contains(t, string(decode(t, parts[0])), `"alg":"ES256"`)
	})

	t.Run("flag takes precedence over environment", func(t *testing.T) {
		t.Setenv(kidEnvKey, "not-a-uuid")

		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body)
		require.NoError(t, err)
	})

	t.Run("version", func(t *testing.T) {
		cmd := GetSignCmd(WithVersion("v1.2.3"))

		var stdout bytes.Buffer

		cmd.SetOut(&stdout)
		cmd.SetArgs([]string{"--version"})

		require.NoError(t, cmd.Execute())
		require.Contains(t, stdout.String(), "v1.2.3")
	})

	t.Run("help", func(t *testing.T) {
		out, err := execute(t, nil, "--help")
		require.NoError(t, err)
		require.Contains(t, out, "--"+kidFlagName)
		require.Contains(t, out, kidEnvKey)
		require.Contains(t, out, `(default "ES512")`)
	})
}

func TestSignCmd_Errors(t *testing.T) {
	keyFile := testFile("p521.pem")

	t.Run("P-256 key without alg", func(t *testing.T) {
		out, err := execute(t, nil, "--key", testFile("p256.pem"), "--kid", kid, "--body", body)
		require.Error(t, err)
		require.True(t, errors.Is(err, jwsbuilder.ErrInvalidKey))
		require.Contains(t, err.Error(), "the underlying elliptic curve must be P-521 to sign using ES512")
		require.Empty(t, out)
	})

	t.Run("missing key", func(t *testing.T) {
		out, err := execute(t, nil, "--kid", kid, "--body", body)
		require.Error(t, err)
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
		require.Contains(t, err.Error(), keyEnvKey)
		require.Empty(t, out)
	})

	t.Run("missing kid", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--body", body)
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
	})

	t.Run("kid is not a UUID", func(t *testing.T) {
		out, err := execute(t, nil, "--key", keyFile, "--kid", "abc123", "--body", body)
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
		require.Contains(t, err.Error(), "kid must be a UUID")
		require.Empty(t, out)
	})

	t.Run("missing body", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--kid", kid)
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
	})

	t.Run("body and body file", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body, "--body-file", "-")
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
		require.Contains(t, err.Error(), "only one of")
	})

	t.Run("body file not found", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body-file", testFile("missing.json"))
		require.True(t, errors.Is(err, keyloader.ErrPayloadFileUnreadable))
	})

	t.Run("key file not found", func(t *testing.T) {
		out, err := execute(t, nil, "--key", testFile("missing.pem"), "--kid", kid, "--body", body)
		require.True(t, errors.Is(err, keyloader.ErrKeyFileUnreadable))
		require.Empty(t, out)
	})

	t.Run("RSA key", func(t *testing.T) {
		out, err := execute(t, nil, "--key", testFile("rsa.pem"), "--kid", kid, "--body", body)
		require.True(t, errors.Is(err, jwsbuilder.ErrInvalidKey))
		require.Empty(t, out)
	})

	t.Run("public key instead of private key", func(t *testing.T) {
		_, err := execute(t, nil, "--key", testFile("p521_pub.pem"), "--kid", kid, "--body", body)
		require.True(t, errors.Is(err, jwsbuilder.ErrInvalidKey))
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		for _, alg := range []string{"RS256", "ES384"} {
			_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body, "--alg", alg)
			require.True(t, errors.Is(err, jwsbuilder.ErrUnsupportedAlgorithm))
		}
	})

	t.Run("invalid detached value", func(t *testing.T) {
		t.Setenv(detachedEnvKey, "maybe")

		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body)
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body, "--log-level", "loud")
		require.True(t, errors.Is(err, keyloader.ErrInvalidArguments))
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		_, err := execute(t, nil, "--key", keyFile, "--kid", kid, "--body", body, "extra")
		require.Error(t, err)
	})
}

func execute(t *testing.T, stdin *strings.Reader, args ...string) (string, error) {
	t.Helper()

	cmd := GetSignCmd()

	var stdout bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	if stdin != nil {
		cmd.SetIn(stdin)
	}

	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func testFile(name string) string {
	return filepath.Join("testdata", name)
}

func decode(t *testing.T, segment string) []byte {
	t.Helper()

	b, err := base64.RawURLEncoding.DecodeString(segment)
	require.NoError(t, err)

	return b
}

func readPublicKey(t *testing.T, name string) *ecdsa.PublicKey {
	t.Helper()

	b, err := os.ReadFile(testFile(name))
	require.NoError(t, err)

	block, _ := pem.Decode(b)
	require.NotNil(t, block)

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	return pub.(*ecdsa.PublicKey)
}
