package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	memprofile string
	v          *viper.Viper
}

func main() {
	if err := cliParser().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:           "cmar",
		Short:         "cmar mines class association rules and classifies with them",
		Long:          `A tool to mine class association rules from categorical data, prune them and use them to classify records`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return config.writeMemProfile()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log every phase of the training")
	rootCmd.PersistentFlags().StringVarP(&(config.configFile), "config", "c", "", "a yaml or json config file with default values for the flags")
	rootCmd.PersistentFlags().StringVar(&(config.memprofile), "memprofile", "", "write memory profile to `file`")
	rootCmd.AddCommand(versionCmd(), trainCmd(config), classifyCmd(config), cvCmd(config), graphCmd(config))
	return rootCmd
}

func (config *rootCmdConfig) setup() error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if config.verbose {
		log.SetLevel(log.DebugLevel)
	}

	setDefaults(config.v)
	if config.configFile == "" {
		return nil
	}
	config.v.SetConfigFile(config.configFile)
	if err := config.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config %s", config.configFile)
	}
	log.WithField("config", config.v.ConfigFileUsed()).Debug("config loaded")
	return nil
}

func (config *rootCmdConfig) writeMemProfile() error {
	if config.memprofile == "" {
		return nil
	}
	f, err := os.Create(config.memprofile)
	if err != nil {
		return errors.Wrap(err, "could not create memory profile")
	}
	defer func() { _ = f.Close() }()
	runtime.GC()
	return errors.Wrap(pprof.WriteHeapProfile(f), "could not write memory profile")
}

//runLogger tags the log lines of one command run.
func runLogger(command string) *log.Entry {
	return log.WithFields(log.Fields{"run": uuid.New().String(), "command": command})
}

func fail(code int, err error) error {
	return &exitError{code: code, err: err}
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%v (exit code %d)", e.err, e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}
