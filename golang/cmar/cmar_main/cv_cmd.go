package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

type cvCmdConfig struct {
	*trainingConfig
	cv crl.CVParams
}

func (cc *cvCmdConfig) Validate() error {
	if cc.cv.Folds < 2 {
		return errors.Errorf("at least 2 folds are needed, got %d", cc.cv.Folds)
	}
	if cc.cv.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", cc.cv.Workers)
	}
	return cc.trainingConfig.Validate()
}

func cvCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Cross-validate the classifier",
		Long:  `Split the training set into folds, train on all folds but one and measure the error on the held out fold`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(rootConfig.v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := rootConfig.v
			config := &cvCmdConfig{
				trainingConfig: rootConfig.trainingConfig(),
				cv: crl.CVParams{
					Folds:   v.GetInt("folds"),
					Seed:    v.GetInt64("seed"),
					Workers: v.GetInt("workers"),
				},
			}
			if err := config.Validate(); err != nil {
				return fail(2, err)
			}
			logger := runLogger("cv")

			set, err := config.loadTrainingSet()
			if err != nil {
				return fail(3, err)
			}
			report, err := crl.CrossValidate(cmd.Context(), set.rows, config.params, config.cv)
			if err != nil {
				return fail(4, errors.Wrap(err, "cross-validation"))
			}
			logger.WithField("error_rate", report.MeanErrorRate).Info("cross-validation done")
			renderCrossValidation(cmd.OutOrStdout(), report)
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().Int("folds", 0, "number of folds")
	cmd.Flags().Int64("seed", 0, "seed of the shuffle that assigns rows to folds")
	cmd.Flags().Int("workers", 0, "folds trained at the same time")
	return cmd
}
