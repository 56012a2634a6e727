package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NamanBalaji/anyio"
)

func newDigestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest <locator>",
		Short: "Print the SHA-256 digest of the file's stored bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := anyio.Sha256(args[0], readOptions()...)
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s\n", sum, args[0])

			return nil
		},
	}
}
