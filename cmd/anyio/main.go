package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/NamanBalaji/anyio"
	"github.com/NamanBalaji/anyio/internal/config"
	"github.com/NamanBalaji/anyio/internal/logger"
)

var (
	debugFlag      bool
	cacheDirFlag   string
	cacheFileFlag  string
	cacheForceFlag bool
	statsFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "anyio <locator>",
	Short: "Read any local or remote file, transparently decompressed",
	Long: `anyio reads a file from the local filesystem, HTTP(S), FTP, or S3 and
writes its decompressed content to stdout. The transport is chosen by
the locator's scheme and the codec by its extension.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logPath := ""
		if debugFlag {
			logPath = filepath.Join(xdg.StateHome, "anyio", "debug.log")
		}

		return logger.Init(debugFlag, logPath)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	locator := args[0]
	opts := readOptions()

	r, err := anyio.Open(locator, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	if statsFlag {
		return printStats(r)
	}

	_, err = io.Copy(os.Stdout, r)

	return err
}

// printStats consumes the decompressed stream and reports line and
// character counts instead of the content.
func printStats(r io.Reader) error {
	var lines, chars int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines++
		chars += int64(utf8.RuneCountInString(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("lines: \t %d\n", lines)
	fmt.Printf("chars: \t %d\n", chars)

	return nil
}

// readOptions threads the config file and command flags into resolution
// options. Flags win over the config file.
func readOptions() []anyio.Option {
	var opts []anyio.Option

	if cfg, err := config.GetConfig(); err == nil {
		opts = append(opts,
			anyio.WithRetries(cfg.MaxRetries),
			anyio.WithRetryDelay(cfg.RetryDelay),
			anyio.WithTimeout(cfg.Timeout),
			anyio.WithUserAgent(cfg.UserAgent),
			anyio.WithInsecureTLS(cfg.AcceptInvalidCerts),
		)
	}

	if cacheDirFlag != "" {
		opts = append(opts, anyio.WithCacheDir(cacheDirFlag))
	}
	if cacheFileFlag != "" {
		opts = append(opts, anyio.WithCacheFile(cacheFileFlag))
	}
	if cacheForceFlag {
		opts = append(opts, anyio.WithForceCache(true))
	}

	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug logs to the state directory")
	rootCmd.Flags().StringVar(&cacheDirFlag, "cache-dir", "", "cache remote reads under this directory")
	rootCmd.Flags().StringVar(&cacheFileFlag, "cache-file", "", "override the derived cache file name")
	rootCmd.Flags().BoolVar(&cacheForceFlag, "cache-force", false, "re-fetch even when a cache file exists")
	rootCmd.Flags().BoolVar(&statsFlag, "stats", false, "print line and character counts instead of content")

	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newDigestCommand())
	rootCmd.AddCommand(newS3Command())
}
