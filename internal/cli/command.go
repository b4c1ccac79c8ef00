package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/nbtranslate/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nbtranslate [notebook.ipynb]",
		Short: "Jupyter notebook translator",
		Long: `nbtranslate translates the prose of a Jupyter notebook with a language model.

Markdown cells are translated as a whole. In code cells only the text of
"""doc strings""" is translated; the code around them is left untouched.
Cell order, metadata and outputs are preserved.

Examples:
  nbtranslate lesson.ipynb -l German -o lesson.de.ipynb
  nbtranslate -i lesson.ipynb --provider gemini -l ja
  nbtranslate --batch notebooks.txt -l fr
  nbtranslate lesson.ipynb --dry-run`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.Input == "" && len(args) > 0 {
				flags.Input = args[0]
			}
		},
		SilenceUsage: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultCachePath returns the location of the persistent translation cache
func DefaultCachePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "nbtranslate", "cache.db")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.nbtranslate.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print diagnostic messages to stderr")

	// Local flags
	cmd.Flags().StringVarP(&flags.Input, "ipynb", "i", "", "Input notebook path")
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Output notebook path (default <input>.<lang>.ipynb)")
	cmd.Flags().StringVarP(&flags.Language, "lang", "l", flags.Language, "Target language to translate to")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate notebooks listed in file (one per line, optional '= output')")
	cmd.Flags().BoolVar(&flags.Backup, "backup", false, "Move an existing output file to archive/ before replacing it")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Walk the notebook without calling a provider")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available chat models for the current API key")
	cmd.Flags().IntVar(&flags.Indent, "indent", flags.Indent, "Spaces of JSON indentation in the output (0 writes compact JSON)")

	// Provider flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	cmd.Flags().StringVarP(&flags.Model, "model", "m", flags.Model, "Model name")
	cmd.Flags().StringVarP(&flags.BaseURL, "base-url", "b", "", "API base URL for OpenAI-compatible gateways")
	cmd.Flags().Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout per translation request")
	cmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Replace the default system prompt")
	cmd.Flags().StringVar(&flags.Marker, "marker", flags.Marker, "Delimiter of translatable doc strings in code cells")

	// Cache and limit flags
	cmd.Flags().StringVar(&flags.CachePath, "cache", DefaultCachePath(), "Translation cache database")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Do not read or write the translation cache")
	cmd.Flags().Float64Var(&flags.RPS, "rps", 0, "Maximum requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive provider failures before giving up on the provider")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.language", cmd.Flags().Lookup("lang"))
	viper.BindPFlag("translate.prompt", cmd.Flags().Lookup("prompt"))
	viper.BindPFlag("translate.marker", cmd.Flags().Lookup("marker"))
	viper.BindPFlag("provider.name", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("provider.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("provider.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("provider.temperature", cmd.Flags().Lookup("temperature"))
	viper.BindPFlag("provider.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("output.indent", cmd.Flags().Lookup("indent"))
	viper.BindPFlag("output.backup", cmd.Flags().Lookup("backup"))
	viper.BindPFlag("cache.path", cmd.Flags().Lookup("cache"))
	viper.BindPFlag("cache.disabled", cmd.Flags().Lookup("no-cache"))
	viper.BindPFlag("limits.rps", cmd.Flags().Lookup("rps"))
	viper.BindPFlag("limits.breaker_failures", cmd.Flags().Lookup("breaker-failures"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".nbtranslate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".nbtranslate")
	}

	// A .env file in the working directory may carry API keys. Variables
	// already set in the environment win.
	_ = godotenv.Load()

	// Environment variables
	viper.SetEnvPrefix("NBTRANSLATE")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies values from the config file and environment into
// flags the user did not set on the command line.
func ApplyConfig(flags *Flags) {
	if viper.IsSet("translate.language") {
		flags.Language = viper.GetString("translate.language")
	}
	if viper.IsSet("translate.prompt") {
		flags.Prompt = viper.GetString("translate.prompt")
	}
	if viper.IsSet("translate.marker") {
		flags.Marker = viper.GetString("translate.marker")
	}
	if viper.IsSet("provider.name") {
		flags.Provider = viper.GetString("provider.name")
	}
	if viper.IsSet("provider.model") {
		flags.Model = viper.GetString("provider.model")
	}
	if viper.IsSet("provider.base_url") {
		flags.BaseURL = viper.GetString("provider.base_url")
	}
	if viper.IsSet("provider.temperature") {
		flags.Temperature = viper.GetFloat64("provider.temperature")
	}
	if viper.IsSet("provider.timeout") {
		flags.Timeout = viper.GetDuration("provider.timeout")
	}
	if viper.IsSet("output.indent") {
		flags.Indent = viper.GetInt("output.indent")
	}
	if viper.IsSet("output.backup") {
		flags.Backup = viper.GetBool("output.backup")
	}
	if viper.IsSet("cache.path") {
		flags.CachePath = viper.GetString("cache.path")
	}
	if viper.IsSet("cache.disabled") {
		flags.NoCache = viper.GetBool("cache.disabled")
	}
	if viper.IsSet("limits.rps") {
		flags.RPS = viper.GetFloat64("limits.rps")
	}
	if viper.IsSet("limits.breaker_failures") {
		flags.BreakerFailures = viper.GetInt("limits.breaker_failures")
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("provider.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	return viper.GetString("provider.gemini_key")
}

// GetAPIKey returns the key for the named provider
func GetAPIKey(provider string) string {
	if provider == "gemini" {
		return GetGeminiKey()
	}
	return GetOpenAIKey()
}
