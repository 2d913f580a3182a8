package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Endogen/git-downloader/gitdownload"
	u "github.com/Endogen/git-downloader/utils"
)

var cmdFlags struct {
	configPath    string
	branch        string
	output        string
	excludes      []string
	maxFileSize   float64
	includeBinary bool
	stats         bool
	directory     string
	debug         bool
}

var GitDownloaderVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "git-downloader [repository-url]",
	Short:   "Clone a git repository and merge its files into one annotated text document.",
	Version: GitDownloaderVersion,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmdFlags.debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		if len(args) == 0 && cmdFlags.directory == "" {
			u.PrintError("no repository URL or directory provided")
			os.Exit(1)
		}
		if len(args) > 0 && cmdFlags.directory != "" {
			u.PrintError("received both repository URL and directory")
			os.Exit(1)
		}

		cfg, err := gitdownload.Load(cmdFlags.configPath, gitdownload.Overrides{
			Branch:         cmdFlags.branch,
			ExcludeFolders: cmdFlags.excludes,
			MaxFileSizeMB:  cmdFlags.maxFileSize,
			IncludeBinary:  cmdFlags.includeBinary,
			ShowStats:      cmdFlags.stats,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}

		pipeline := gitdownload.NewPipeline(cfg)
		var stats *gitdownload.Stats
		var outputName string
		if cmdFlags.directory != "" {
			if info, statErr := os.Stat(cmdFlags.directory); statErr != nil || !info.IsDir() {
				u.PrintError(fmt.Sprintf("not a directory: %s", cmdFlags.directory))
				os.Exit(1)
			}
			base := filepath.Base(strings.TrimRight(cmdFlags.directory, "/"))
			outputName = outputFileName(base)
			stats, err = pipeline.ProcessTree(cmdFlags.directory, outputName)
		} else {
			outputName = outputFileName(gitdownload.RepoName(args[0]))
			stats, err = pipeline.Run(args[0], outputName)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate document")
		}

		u.PrintSuccess(fmt.Sprintf("wrote %s", filepath.Join(cfg.DownloadFolder, outputName)))
		if cfg.ShowStats {
			stats.Report()
		}
	},
}

// outputFileName applies the -o override, reduced to a base name so the
// document always lands inside the download folder.
func outputFileName(base string) string {
	if cmdFlags.output != "" {
		return filepath.Base(cmdFlags.output)
	}
	return base + ".txt"
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	rootCmd.Flags().StringVarP(&cmdFlags.configPath, "config", "c", "", "Path to the configuration file (config.json in the working directory by default)")
	rootCmd.Flags().StringVarP(&cmdFlags.branch, "branch", "b", "", "Branch to clone; overrides the configured default")
	rootCmd.Flags().StringVarP(&cmdFlags.output, "output", "o", "", "Name of the output file; derived from the repository name if unset")
	rootCmd.Flags().StringSliceVarP(&cmdFlags.excludes, "exclude", "e", []string{}, "Additional folders to exclude (added to skip_folders from config)")
	rootCmd.Flags().Float64VarP(&cmdFlags.maxFileSize, "max-file-size", "m", 0, "Maximum file size in MB; overrides the configured limit")
	rootCmd.Flags().BoolVar(&cmdFlags.includeBinary, "include-binary", false, "Include binary files as base64 blocks")
	rootCmd.Flags().BoolVarP(&cmdFlags.stats, "stats", "s", false, "Print run statistics after the document is written")
	rootCmd.Flags().StringVarP(&cmdFlags.directory, "dir", "d", "", "Process a local directory instead of cloning a repository")
	rootCmd.Flags().BoolVar(&cmdFlags.debug, "debug", false, "Enable debug logging")
}
