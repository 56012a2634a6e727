package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NamanBalaji/anyio"
)

func newGetCommand() *cobra.Command {
	var (
		outFile  string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "get <url> [url...]",
		Short: "Download remote files as-is, without decompressing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFile != "" && len(args) > 1 {
				return fmt.Errorf("--outfile is only valid with a single url")
			}

			g := new(errgroup.Group)
			g.SetLimit(parallel)

			for _, url := range args {
				dest := outFile
				if dest == "" {
					dest = lastSegment(url)
				}
				if dest == "" {
					return fmt.Errorf("cannot derive a file name from %s, use --outfile", url)
				}

				g.Go(func() error {
					return downloadOne(url, dest)
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&outFile, "outfile", "o", "", "destination path (single url only)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "maximum concurrent downloads")

	return cmd
}

func downloadOne(url, dest string) error {
	bar := newDownloadBar(dest)
	defer bar.Finish()

	opts := append(readOptions(), anyio.WithProgress(func(read, total int64) {
		if total != anyio.UnknownSize && bar.GetMax64() != total {
			bar.ChangeMax64(total)
		}
		bar.Set64(read)
	}))

	// Download copies raw bytes, so progress over the transport stream
	// is progress over the output file.
	return anyio.DownloadWithRetry(url, dest, 3, opts...)
}

func newDownloadBar(name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
	)
}

func lastSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}
