package cmd

import (
	"context"
	"fmt"
	"os"

	gtree "github.com/ki-aura/gtree/internal/tree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "2.2.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gtree [options] <path>",
	Short: "Render a directory tree with symlink cycle detection",
	Long: `gtree renders a directory hierarchy as a formatted tree, following
symlinked directories safely: cycles are detected by filesystem identity
(device and inode) and marked [recursive] instead of being re-entered.
A summary of directory, file and size totals is printed after the tree.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTree(args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags
	rootCmd.PersistentFlags().IntP("depth", "d", 0, "Maximum depth (clamped to a minimum of 2)")
	rootCmd.PersistentFlags().BoolP("follow-links", "l", false, "Follow symlinked directories (loop detection is always on)")
	rootCmd.PersistentFlags().BoolP("hidden", "j", false, "Show entries that start with a dot")
	rootCmd.PersistentFlags().BoolP("files", "f", false, "Show individual files")
	rootCmd.PersistentFlags().BoolP("stats", "s", false, "Show file and size totals for populated directories")
	rootCmd.PersistentFlags().BoolP("color", "c", false, "Show files in color (automatically sets --files)")
	rootCmd.PersistentFlags().String("pattern", "", "Only list and count files matching this glob")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Disable all output except errors")

	// Bind flags to viper
	viper.BindPFlag("depth", rootCmd.PersistentFlags().Lookup("depth"))
	viper.BindPFlag("follow-links", rootCmd.PersistentFlags().Lookup("follow-links"))
	viper.BindPFlag("hidden", rootCmd.PersistentFlags().Lookup("hidden"))
	viper.BindPFlag("files", rootCmd.PersistentFlags().Lookup("files"))
	viper.BindPFlag("stats", rootCmd.PersistentFlags().Lookup("stats"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("pattern", rootCmd.PersistentFlags().Lookup("pattern"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gtree" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gtree")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// optionsFromConfig assembles engine options from the bound flag values.
func optionsFromConfig() gtree.Options {
	opts := gtree.Options{
		MaxDepth:    viper.GetInt("depth"),
		FollowLinks: viper.GetBool("follow-links"),
		ShowHidden:  viper.GetBool("hidden"),
		ShowFiles:   viper.GetBool("files"),
		ShowStats:   viper.GetBool("stats"),
		Color:       viper.GetBool("color"),
		Filter: gtree.FilterOptions{
			Pattern: viper.GetString("pattern"),
		},
	}

	if viper.GetBool("verbose") {
		opts.LogLevel = gtree.LogLevelDebug
	} else if viper.GetBool("silent") {
		opts.LogLevel = gtree.LogLevelError
	} else {
		opts.LogLevel = gtree.LogLevelWarn
	}
	return opts
}

func runTree(root string) error {
	opts := optionsFromConfig()

	report, err := gtree.Walk(context.Background(), root, os.Stdout, opts)
	if err != nil {
		return err
	}

	report.Summary(os.Stdout, opts.ShowStats || opts.ShowFiles || opts.Color)
	return nil
}
