// Package cmd implements the gallery command line.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"project-gallery/internal/startup"
)

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"dir":            startup.KeyMediaDir,
	"video":          startup.KeyVideoEnabled,
	"bind":           startup.KeyBind,
	"port":           startup.KeyPort,
	"metrics-port":   startup.KeyMetricsPort,
	"thumbnail-size": startup.KeyThumbnailSize,
	"log-level":      startup.KeyLogLevel,
}

// negatedFlags switch a key that defaults to true off.
var negatedFlags = map[string]string{
	"no-metrics":    startup.KeyMetricsEnabled,
	"no-thumbnails": startup.KeyThumbnailsEnabled,
}

// app is the state shared by the subcommands. cfg is loaded by the root
// command's PersistentPreRunE before any subcommand runs.
type app struct {
	configFile string
	cfg        *startup.Config
}

// NewRootCmd builds the gallery command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gallery",
		Short: "Browse directories of images and videos as projects",
		Long: `gallery groups the media files below a directory into projects, one per
directory that directly contains images or videos, and serves them as a
web gallery.

Every setting can also come from a YAML file (--config) or from
GALLERY_-prefixed environment variables, e.g. GALLERY_MEDIA_DIR.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Flags())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	flags.String("dir", "img", "media directory to scan")
	flags.Bool("video", false, "include video files")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(flags *pflag.FlagSet) error {
	v, err := startup.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, flags); err != nil {
		return err
	}
	cfg, err := startup.LoadConfig(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// bindFlags makes every flag present in flags override its key in v, but
// only when the flag was given on the command line.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	for name, key := range negatedFlags {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		off, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		v.Set(key, !off)
	}
	return nil
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
