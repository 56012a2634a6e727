package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NamanBalaji/anyio"
)

func newS3Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Work with S3-compatible object storage",
	}

	cmd.AddCommand(newS3UploadCommand())
	cmd.AddCommand(newS3ListCommand())

	return cmd
}

func newS3UploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <local-path> <s3://bucket/key>",
		Short: "Upload a local file to an S3 object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, key, err := anyio.ParseS3URL(args[1])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := anyio.S3Upload(cmd.Context(), bucket, key, f); err != nil {
				return err
			}

			fmt.Printf("uploaded %s to s3://%s/%s\n", args[0], bucket, key)

			return nil
		},
	}
}

func newS3ListCommand() *cobra.Command {
	var (
		delimiter string
		dirsOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "list <s3://bucket/prefix>",
		Short: "List the keys under an S3 prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, prefix, err := splitS3Prefix(args[0])
			if err != nil {
				return err
			}

			keys, err := anyio.S3List(cmd.Context(), bucket, prefix, delimiter, dirsOnly)
			if err != nil {
				return err
			}

			for _, key := range keys {
				fmt.Println(key)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", "", "group keys by this delimiter")
	cmd.Flags().BoolVar(&dirsOnly, "dirs", false, "print common prefixes instead of keys")

	return cmd
}

// splitS3Prefix is like ParseS3URL but also accepts a bare bucket, so
// listings can start at the bucket root.
func splitS3Prefix(locator string) (bucket, prefix string, err error) {
	bucket, prefix, err = anyio.ParseS3URL(locator)
	if err == nil {
		return bucket, prefix, nil
	}

	for _, scheme := range []string{"s3://", "r2://"} {
		if rest, ok := strings.CutPrefix(locator, scheme); ok {
			rest = strings.TrimSuffix(rest, "/")
			if rest != "" && !strings.Contains(rest, "/") {
				return rest, "", nil
			}
		}
	}

	return "", "", err
}
