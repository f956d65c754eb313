package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	var dumpMetadata string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Mine and prune class association rules",
		Long:  `Mine class association rules from a training set, prune them by dominance, significance and coverage and print the final rules`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(rootConfig.v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config := rootConfig.trainingConfig()
			if err := config.Validate(); err != nil {
				return fail(2, err)
			}
			logger := runLogger("train")

			set, err := config.loadTrainingSet()
			if err != nil {
				return fail(3, err)
			}
			model, err := crl.Train(set.rows, config.params)
			if err != nil {
				return fail(4, errors.Wrap(err, "training"))
			}
			logger.WithField("rules", model.Rules).Info("model trained")

			renderRules(cmd.OutOrStdout(), model.Store.Rules(), set.meta, model.TrainRows, len(model.LabelSupport))

			if dumpMetadata != "" {
				if err := crl.WriteMetadata(dumpMetadata, set.encoding); err != nil {
					return fail(5, err)
				}
			}
			output := rootConfig.v.GetString("output")
			if output != "" {
				if err := model.Store.RenderRules(output, rootConfig.v.GetString("figure_type"), set.meta); err != nil {
					return fail(5, err)
				}
				logger.WithField("output", output).Info("rule tree rendered")
			}
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "render the final rule tree into this file")
	cmd.Flags().String("figure-type", "", "figure type of the rendered tree: png, svg, jpg or dot")
	cmd.Flags().StringVar(&dumpMetadata, "dump-metadata", "", "write the column names and value codes of the training set as yaml")
	return cmd
}
