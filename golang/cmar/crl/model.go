package crl

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//MiningParams configures rule mining. MinSupport is an absolute row count.
type MiningParams struct {
	MinSupport    float64
	MinConfidence float64
	MaxCandidates int
}

//Validate rejects negative support, a confidence outside [0, 1] and a negative candidate cap.
func (params MiningParams) Validate() error {
	if params.MinSupport < 0 || math.IsNaN(params.MinSupport) {
		return errors.Wrapf(ErrInvalidParams, "min support %v", params.MinSupport)
	}
	if params.MinConfidence < 0 || params.MinConfidence > 1 || math.IsNaN(params.MinConfidence) {
		return errors.Wrapf(ErrInvalidParams, "min confidence %v", params.MinConfidence)
	}
	if params.MaxCandidates < 0 {
		return errors.Wrapf(ErrInvalidParams, "max candidates %d", params.MaxCandidates)
	}
	return nil
}

//BuildRules mines the rows and returns the first rule store, pruned by dominance.
//minSupport is an absolute row count.
func BuildRules(rows []Row, minSupport, minConfidence float64) *RuleStore {
	store, _ := buildRules(rows, MiningParams{
		MinSupport:    minSupport,
		MinConfidence: minConfidence,
		MaxCandidates: DefaultMaxCandidates,
	})
	return store
}

//BuildRulesWithParams is BuildRules with validated parameters.
func BuildRulesWithParams(rows []Row, params MiningParams) (*RuleStore, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	store, _ := buildRules(rows, params)
	return store, nil
}

func buildRules(rows []Row, params MiningParams) (*RuleStore, int) {
	flist := NewFrequencyList(rows, params.MinSupport)
	tree := NewFPTree(rows, flist)
	table := NewCandidateTable(flist, params.MaxCandidates)
	tree.Mine(params.MinSupport, table)

	rules := FilterCandidates(table.Candidates(), rows, params.MinSupport, params.MinConfidence)
	store := NewRuleStore()
	written := store.InsertAll(rules, true)

	log.WithFields(log.Fields{
		"frequent":   flist.Len(),
		"fp_nodes":   tree.NodeCount(),
		"candidates": table.Len(),
		"filtered":   len(rules),
		"inserted":   written,
		"stored":     store.Len(),
	}).Info("rules mined")
	return store, len(rules)
}

//TrainParams configures a full training run. MinSupport is a fraction of the rows.
type TrainParams struct {
	MinSupport        float64
	MinConfidence     float64
	CoverageThreshold int
	MaxCandidates     int
}

//DefaultTrainParams returns the usual CMAR settings.
func DefaultTrainParams() TrainParams {
	return TrainParams{
		MinSupport:        0.01,
		MinConfidence:     0.5,
		CoverageThreshold: DefaultCoverageThreshold,
		MaxCandidates:     DefaultMaxCandidates,
	}
}

//Validate checks the support fraction, the confidence and the coverage threshold.
func (params TrainParams) Validate() error {
	if params.MinSupport < 0 || params.MinSupport > 1 || math.IsNaN(params.MinSupport) {
		return errors.Wrapf(ErrInvalidParams, "min support fraction %v", params.MinSupport)
	}
	if params.CoverageThreshold < 1 {
		return errors.Wrapf(ErrInvalidParams, "coverage threshold %d", params.CoverageThreshold)
	}
	return params.mining(0).Validate()
}

func (params TrainParams) mining(rows int) MiningParams {
	return MiningParams{
		MinSupport:    params.MinSupport * float64(rows),
		MinConfidence: params.MinConfidence,
		MaxCandidates: params.MaxCandidates,
	}
}

//Model is a trained classifier together with the rule counts of its training run.
type Model struct {
	Classifier
	MinedRules    int
	FilteredRules int
	Rules         int
}

//Train mines, prunes by coverage and binds the final store to the class support of the rows.
func Train(rows []Row, params TrainParams) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	store, filtered := buildRules(rows, params.mining(len(rows)))
	mined := store.Len()
	final, count := PruneByCoverage(store, params.CoverageThreshold, rows)

	clf, err := NewClassifier(final, rows)
	if err != nil {
		return nil, err
	}
	return &Model{Classifier: *clf, MinedRules: mined, FilteredRules: filtered, Rules: count}, nil
}

//Predict classifies one record.
func (model *Model) Predict(record []int) (string, error) {
	return model.Classify(record)
}

//PredictAll classifies the values of every row, labels of the rows are ignored.
func (model *Model) PredictAll(rows []Row) ([]string, error) {
	predictions := make([]string, len(rows))
	for ind, row := range rows {
		label, err := model.Classify(row.Values)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", ind)
		}
		predictions[ind] = label
	}
	return predictions, nil
}

//ErrorRate is the fraction of rows whose prediction differs from their label.
func (model *Model) ErrorRate(rows []Row) (float64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	predictions, err := model.PredictAll(rows)
	if err != nil {
		return 0, err
	}
	wrong := 0
	for ind, row := range rows {
		if predictions[ind] != row.Label {
			wrong++
		}
	}
	return float64(wrong) / float64(len(rows)), nil
}
