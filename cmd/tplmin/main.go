package main

import (
	"os"

	"bennypowers.dev/tplmin/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tplmin [flags] <glob>...",
	Short: "Minify HTML and CSS tagged templates in JavaScript sources",
	Long: `tplmin rewrites the static text of tagged template literals that resolve
to configured tag functions (lit-html's html and css, choo/html, hyperHTML and
similar) with minified markup or stylesheets. Expressions are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoot,
}

func init() {
	rootCmd.Version = version.GetFullVersion()

	flags := rootCmd.Flags()
	flags.StringP("config", "c", "", "config file (default: .tplminrc.{json,jsonc,yaml,yml,toml} in the working directory)")
	flags.BoolP("write", "w", false, "rewrite files in place")
	flags.StringP("out-dir", "o", "", "write results below this directory, keeping paths relative to the working directory")
	flags.IntP("jobs", "j", 0, "files processed concurrently (default: GOMAXPROCS)")
	flags.Bool("watch", false, "keep running and process files again when they change")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if rootCmd.SilenceErrors {
			errorColor.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
