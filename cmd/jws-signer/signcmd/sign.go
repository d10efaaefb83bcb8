/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signcmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/truelayer/jws-signer/internal/cmdutil"
	"github.com/truelayer/jws-signer/internal/log"
	"github.com/truelayer/jws-signer/pkg/jws"
	"github.com/truelayer/jws-signer/pkg/jwsbuilder"
	"github.com/truelayer/jws-signer/pkg/keyloader"
	logmodules "github.com/truelayer/jws-signer/pkg/log"
)

const (
	bodyFlagName  = "body"
	bodyFlagUsage = "The payload you want to sign." +
		" Alternatively, this can be set with the following environment variable: " + bodyEnvKey
	bodyEnvKey = "JWS_SIGNER_BODY"

	bodyFileFlagName  = "body-file"
	bodyFileFlagUsage = "File holding the payload you want to sign, '-' to read standard input." +
		" Cannot be combined with --" + bodyFlagName + "." +
		" Alternatively, this can be set with the following environment variable: " + bodyFileEnvKey
	bodyFileEnvKey = "JWS_SIGNER_BODY_FILE"

	keyFlagName  = "key"
	keyFlagUsage = "The filename of the Elliptic Curve private key used to sign, in PEM format." +
		" Alternatively, this can be set with the following environment variable: " + keyEnvKey
	keyEnvKey = "JWS_SIGNER_KEY"

	kidFlagName  = "kid"
	kidFlagUsage = "The certificate id associated to the public certificate you uploaded in the Console." +
		" The certificate id can be retrieved in the Payouts Setting section." +
		" It will be used as the `kid` header in the JWS." +
		" Alternatively, this can be set with the following environment variable: " + kidEnvKey
	kidEnvKey = "JWS_SIGNER_KID"

	algFlagName  = "alg"
	algFlagUsage = "JWS algorithm, ES512 (required by the Payouts and Paydirect APIs, P-521 keys) or ES256 (P-256 keys)." +
		" Alternatively, this can be set with the following environment variable: " + algEnvKey
	algEnvKey = "JWS_SIGNER_ALG"

	detachedFlagName  = "detached"
	detachedFlagUsage = "Omit the payload from the printed JWS (header..signature)." +
		" Alternatively, this can be set with the following environment variable: " + detachedEnvKey
	detachedEnvKey = "JWS_SIGNER_DETACHED"

	logLevelFlagName  = "log-level"
	logLevelFlagUsage = "Log spec, e.g. 'jws-builder=debug:error'. Logs are written to standard error." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey
	logLevelEnvKey = "JWS_SIGNER_LOG_LEVEL"

	defaultAlgorithm = jws.ES512
	defaultLogLevel  = "error"
	defaultVersion   = "dev"
)

var logger = log.New(logmodules.ModuleCLI)

type signParameters struct {
	body     []byte
	keyFile  string
	kid      string
	alg      string
	detached bool
	logSpec  string
}

type options struct {
	version string
}

// Option is a sign command option.
type Option func(o *options)

// WithVersion sets the version printed by --version.
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// GetSignCmd returns the Cobra sign command.
func GetSignCmd(opts ...Option) *cobra.Command {
	o := &options{version: defaultVersion}

	for _, opt := range opts {
		opt(o)
	}

	if o.version == "" {
		o.version = defaultVersion
	}

	cmd := createSignCmd(o)

	createFlags(cmd)

	return cmd
}

func createSignCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "jws-signer",
		Short: "Sign POST requests for the Payouts/Paydirect API",
		Long: "A small command line interface to sign POST requests for the Payouts/Paydirect API." +
			" Prints the JWS of the payload, signed with the given Elliptic Curve private key.",
		Version:       o.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := getSignParameters(cmd)
			if err != nil {
				return err
			}

			return sign(cmd, parameters)
		},
	}
}

func sign(cmd *cobra.Command, parameters *signParameters) error {
	if err := logmodules.SetSpec(parameters.logSpec); err != nil {
		return errors.WithMessagef(keyloader.ErrInvalidArguments, "invalid %s: %s", logLevelFlagName, err)
	}

	logger.Debug("Signing payload",
		log.WithKeyFile(parameters.keyFile), log.WithKeyID(parameters.kid),
		log.WithPayloadSize(len(parameters.body)), log.WithDetached(parameters.detached))

	keyPEM, err := keyloader.Load(parameters.keyFile)
	if err != nil {
		return err
	}

	opts := []jwsbuilder.Option{jwsbuilder.WithAlgorithm(parameters.alg)}

	if parameters.detached {
		opts = append(opts, jwsbuilder.WithDetachedPayload())
	}

	token, err := jwsbuilder.BuildJWS(keyPEM, parameters.kid, parameters.body, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

	return err
}

func getSignParameters(cmd *cobra.Command) (*signParameters, error) {
	body, err := getBody(cmd)
	if err != nil {
		return nil, err
	}

	keyFile, err := cmdutil.GetUserSetVarFromString(cmd, keyFlagName, keyEnvKey, false)
	if err != nil {
		return nil, invalidArgument(err)
	}

	kidString, err := cmdutil.GetUserSetVarFromString(cmd, kidFlagName, kidEnvKey, false)
	if err != nil {
		return nil, invalidArgument(err)
	}

	kid, err := uuid.Parse(kidString)
	if err != nil {
		return nil, errors.WithMessagef(keyloader.ErrInvalidArguments, "%s must be a UUID: %s", kidFlagName, err)
	}

	detached, err := cmdutil.GetUserSetOptionalBool(cmd, detachedFlagName, detachedEnvKey)
	if err != nil {
		return nil, invalidArgument(err)
	}

	alg := cmdutil.GetUserSetOptionalVarFromString(cmd, algFlagName, algEnvKey)
	if alg == "" {
		alg = defaultAlgorithm
	}

	logSpec := cmdutil.GetUserSetOptionalVarFromString(cmd, logLevelFlagName, logLevelEnvKey)
	if logSpec == "" {
		logSpec = defaultLogLevel
	}

	return &signParameters{
		body:     body,
		keyFile:  keyFile,
		kid:      kid.String(),
		alg:      alg,
		detached: detached,
		logSpec:  logSpec,
	}, nil
}

func getBody(cmd *cobra.Command) ([]byte, error) {
	body := cmdutil.GetUserSetOptionalVarFromString(cmd, bodyFlagName, bodyEnvKey)
	bodyFile := cmdutil.GetUserSetOptionalVarFromString(cmd, bodyFileFlagName, bodyFileEnvKey)

	switch {
	case body != "" && bodyFile != "":
		return nil, errors.WithMessagef(keyloader.ErrInvalidArguments,
			"only one of --%s and --%s may be set", bodyFlagName, bodyFileFlagName)
	case bodyFile != "":
		return keyloader.LoadPayload(bodyFile, cmd.InOrStdin())
	case body != "":
		return []byte(body), nil
	default:
		return nil, errors.WithMessagef(keyloader.ErrInvalidArguments,
			"neither --%s nor --%s (or %s, %s) have been set", bodyFlagName, bodyFileFlagName, bodyEnvKey, bodyFileEnvKey)
	}
}

func invalidArgument(err error) error {
	return errors.WithMessage(keyloader.ErrInvalidArguments, err.Error())
}

func createFlags(cmd *cobra.Command) {
	cmd.Flags().String(bodyFlagName, "", bodyFlagUsage)
	cmd.Flags().String(bodyFileFlagName, "", bodyFileFlagUsage)
	cmd.Flags().String(keyFlagName, "", keyFlagUsage)
	cmd.Flags().String(kidFlagName, "", kidFlagUsage)
	cmd.Flags().String(algFlagName, defaultAlgorithm, algFlagUsage)
	cmd.Flags().Bool(detachedFlagName, true, detachedFlagUsage)
	cmd.Flags().String(logLevelFlagName, "", logLevelFlagUsage)
}
