// Command kenburns turns still images into a Ken Burns style video by
// compiling a single ffmpeg filter graph.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/kenburns/internal/config"
	"github.com/ivlev/kenburns/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("kenburns failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int
	root := &cobra.Command{
		Use:           "kenburns",
		Short:         "Animate still images into a pan-and-zoom video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbosity)
		},
	}

	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more output; repeat for ffmpeg logs")

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newListCmd())
	return root
}

// addDetectorFlags registers the flags shared by encode and detect.
func addDetectorFlags(fs *pflag.FlagSet) {
	fs.String("detector", "ollama", "region detector: ollama, contrast or none")
	fs.String("ollama-host", "", "Ollama server URL (default: $OLLAMA_HOST)")
	fs.String("model", "", "vision model served by Ollama")
	fs.Float64("score-threshold", 0.5, "drop detections scoring below this")
	fs.StringArray("default-feature", config.DefaultFeatures, "feature to look for when an image names none; repeatable")
}

// loadSettings layers the --config file, the environment and the command's
// flags over the defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(viper.New(), cmd.Flags(), cfgFile)
}
