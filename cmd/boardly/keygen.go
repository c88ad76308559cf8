package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boardly/boardly/pkg/secretbox"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print freshly generated secrets in .env format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			encKey, err := secretbox.GenerateEncodedKey()
			if err != nil {
				return err
			}
			signing, err := randomSecret()
			if err != nil {
				return err
			}
			cookies, err := randomSecret()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "TOTP_ENCRYPTION_KEY=%s\n", encKey)
			fmt.Fprintf(out, "TWO_FACTOR_SECRET=%s\n", signing)
			fmt.Fprintf(out, "COOKIE_SECRETS=%s\n", cookies)
			return nil
		},
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
