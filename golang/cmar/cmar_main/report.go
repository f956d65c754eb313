package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

func renderRules(out io.Writer, rules []crl.Rule, meta crl.Metadata, trainRows, labels int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("RULES (%d)", len(rules)))
	t.AppendHeader(table.Row{"#", "Conditions", "Label", "Support", "Confidence", "Chi2", "p-value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Conditions", WidthMax: 80},
		{Name: "Support", Align: text.AlignRight},
		{Name: "Confidence", Align: text.AlignRight},
		{Name: "Chi2", Align: text.AlignRight},
		{Name: "p-value", Align: text.AlignRight},
	})
	for ind, rule := range rules {
		t.AppendRow(table.Row{
			ind + 1,
			meta.DescribeConditions(rule.Conditions),
			rule.Label,
			fmt.Sprintf("%d (%.3f)", rule.Support, rule.SupportFraction(trainRows)),
			fmt.Sprintf("%.4f", rule.Confidence),
			fmt.Sprintf("%.4f", rule.ChiSquare),
			fmt.Sprintf("%.4g", crl.PValue(rule.ChiSquare, labels-1)),
		})
	}
	t.Render()
}

func renderCrossValidation(out io.Writer, report *crl.CVReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("CROSS VALIDATION")
	t.AppendHeader(table.Row{"Fold", "Train", "Test", "Error rate", "Filtered", "Mined", "Rules", "Time"})
	for _, fold := range report.Folds {
		t.AppendRow(table.Row{
			fold.Fold, fold.TrainRows, fold.TestRows,
			fmt.Sprintf("%.4f", fold.ErrorRate),
			fold.FilteredRules, fold.MinedRules, fold.Rules,
			fold.Duration.Round(1e6).String(),
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"mean", "", "", fmt.Sprintf("%.4f", report.MeanErrorRate), "", "", fmt.Sprintf("%.1f", report.MeanRules), ""})
	t.Render()
}
