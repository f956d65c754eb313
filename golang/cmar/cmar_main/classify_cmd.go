package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

type classifyCmdConfig struct {
	*trainingConfig
	testInput string
	output    string
}

func (cc *classifyCmdConfig) Validate() error {
	if cc.testInput == "" {
		return errors.New("required test flag was not set")
	}
	return cc.trainingConfig.Validate()
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a test set",
		Long:  `Train on a training set, classify every record of a test set, report the error rate and optionally write the predictions`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(rootConfig.v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &classifyCmdConfig{
				trainingConfig: rootConfig.trainingConfig(),
				testInput:      rootConfig.v.GetString("test"),
				output:         rootConfig.v.GetString("output"),
			}
			if err := config.Validate(); err != nil {
				return fail(2, err)
			}
			logger := runLogger("classify")

			set, err := config.loadTrainingSet()
			if err != nil {
				return fail(3, err)
			}
			testRows, err := crl.LoadRowsWithMetadata(config.testInput, config.table, set.encoding)
			if err != nil {
				return fail(3, errors.Wrap(err, "loading test set"))
			}

			model, err := crl.Train(set.rows, config.params)
			if err != nil {
				return fail(4, errors.Wrap(err, "training"))
			}
			predictions, err := model.PredictAll(testRows)
			if err != nil {
				return fail(5, err)
			}

			wrong := 0
			for ind, row := range testRows {
				if predictions[ind] != row.Label {
					wrong++
				}
			}
			errorRate := float64(wrong) / float64(len(testRows))
			logger.WithFields(map[string]interface{}{"rules": model.Rules, "error_rate": errorRate}).Info("test set classified")
			fmt.Fprintf(cmd.OutOrStdout(), "%f error rate on %d records with %d rules\n", errorRate, len(testRows), model.Rules)

			if config.output != "" {
				if err := crl.WritePredictions(config.output, predictions); err != nil {
					return fail(6, err)
				}
			}
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().StringP("test", "t", "", "path to the test set, in any format of the training set (required)")
	cmd.Flags().StringP("output", "o", "", "write the predictions here: .npy for integer labels, one label per line otherwise")
	return cmd
}
