package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

type graphCmdConfig struct {
	*trainingConfig
	output     string
	figureType string
}

func (gc *graphCmdConfig) Validate() error {
	if gc.output == "" {
		return errors.New("required output flag was not set")
	}
	if _, ok := crl.GraphFormats[gc.figureType]; !ok {
		return errors.Errorf("unsupported figure type %q", gc.figureType)
	}
	return gc.trainingConfig.Validate()
}

func graphCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the rule tree",
		Long:  `Train on a training set and render the final rule tree with graphviz`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(rootConfig.v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &graphCmdConfig{
				trainingConfig: rootConfig.trainingConfig(),
				output:         rootConfig.v.GetString("output"),
				figureType:     rootConfig.v.GetString("figure_type"),
			}
			if err := config.Validate(); err != nil {
				return fail(2, err)
			}

			set, err := config.loadTrainingSet()
			if err != nil {
				return fail(3, err)
			}
			model, err := crl.Train(set.rows, config.params)
			if err != nil {
				return fail(4, errors.Wrap(err, "training"))
			}
			if err := model.Store.RenderRules(config.output, config.figureType, set.meta); err != nil {
				return fail(5, err)
			}
			runLogger("graph").WithField("output", config.output).Info("rule tree rendered")
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "file to render the rule tree into (required)")
	cmd.Flags().String("figure-type", "", "png, svg, jpg or dot")
	return cmd
}
