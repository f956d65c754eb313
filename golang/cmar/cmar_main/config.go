package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

//flagKeys maps command line flags to config file keys.
var flagKeys = map[string]string{
	"train":              "train",
	"test":               "test",
	"table":              "table",
	"metadata":           "metadata",
	"output":             "output",
	"figure-type":        "figure_type",
	"min-support":        "min_support",
	"min-confidence":     "min_confidence",
	"coverage-threshold": "coverage_threshold",
	"max-candidates":     "max_candidates",
	"folds":              "folds",
	"seed":               "seed",
	"workers":            "workers",
}

func setDefaults(v *viper.Viper) {
	defaults := crl.DefaultTrainParams()
	v.SetDefault("min_support", defaults.MinSupport)
	v.SetDefault("min_confidence", defaults.MinConfidence)
	v.SetDefault("coverage_threshold", defaults.CoverageThreshold)
	v.SetDefault("max_candidates", defaults.MaxCandidates)
	v.SetDefault("folds", 10)
	v.SetDefault("seed", 1)
	v.SetDefault("workers", 1)
	v.SetDefault("figure_type", "svg")
}

//bindFlags binds the flags of the running command only, so that commands sharing
//a key do not override each other.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, flag)
	})
	return errors.Wrap(err, "binding flags")
}

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("train", "i", "", "path to the training set: .csv/.data, .npy or SQLite3 .db (required)")
	cmd.Flags().String("table", "", "table to read when the training set is a SQLite3 file")
	cmd.Flags().StringP("metadata", "m", "", "path to a yaml file naming columns and values")
	cmd.Flags().Float64("min-support", 0, "minimum support as a fraction of the training rows")
	cmd.Flags().Float64("min-confidence", 0, "minimum confidence of a rule")
	cmd.Flags().Int("coverage-threshold", 0, "how many rules may cover a training row during rule selection")
	cmd.Flags().Int("max-candidates", 0, "candidate table size at which mining stops")
}

//trainingConfig is what every command needs to train a model.
type trainingConfig struct {
	*rootCmdConfig
	trainInput    string
	table         string
	metadataInput string
	params        crl.TrainParams
}

func (config *rootCmdConfig) trainingConfig() *trainingConfig {
	v := config.v
	return &trainingConfig{
		rootCmdConfig: config,
		trainInput:    v.GetString("train"),
		table:         v.GetString("table"),
		metadataInput: v.GetString("metadata"),
		params: crl.TrainParams{
			MinSupport:        v.GetFloat64("min_support"),
			MinConfidence:     v.GetFloat64("min_confidence"),
			CoverageThreshold: v.GetInt("coverage_threshold"),
			MaxCandidates:     v.GetInt("max_candidates"),
		},
	}
}

func (tc *trainingConfig) Validate() error {
	if tc.trainInput == "" {
		return errors.New("required train flag was not set")
	}
	return tc.params.Validate()
}

//trainingSet holds the training rows with the codes given to their text columns and
//the metadata used to print rules.
type trainingSet struct {
	rows     []crl.Row
	encoding crl.Metadata
	meta     crl.Metadata
}

//loadTrainingSet reads the training rows and the metadata describing them. A metadata
//file takes precedence over what the reader derived from the data when rules are
//printed, the encoding always comes from the data.
func (tc *trainingConfig) loadTrainingSet() (trainingSet, error) {
	rows, encoding, err := crl.LoadRows(tc.trainInput, tc.table)
	if err != nil {
		return trainingSet{}, errors.Wrap(err, "loading training set")
	}
	set := trainingSet{rows: rows, encoding: encoding, meta: encoding}
	if tc.metadataInput != "" {
		set.meta, err = crl.ReadMetadata(tc.metadataInput)
		if err != nil {
			return trainingSet{}, err
		}
	}
	return set, nil
}
