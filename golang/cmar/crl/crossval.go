package crl

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

//CVParams configures a cross-validation run.
type CVParams struct {
	Folds   int
	Seed    int64
	Workers int
}

//FoldResult describes the model trained with one fold held out.
type FoldResult struct {
	Fold          int
	TrainRows     int
	TestRows      int
	ErrorRate     float64
	FilteredRules int
	MinedRules    int
	Rules         int
	Duration      time.Duration
}

//CVReport holds the per fold results and their means.
type CVReport struct {
	Folds         []FoldResult
	MeanErrorRate float64
	MeanRules     float64
}

//SplitFolds shuffles the row indices with the seed and deals them into k folds.
//The first len(rows)%k folds get one extra row.
func SplitFolds(rows int, folds int, seed int64) [][]int {
	order := rand.New(rand.NewSource(seed)).Perm(rows)
	result := make([][]int, folds)
	start := 0
	for fold := 0; fold < folds; fold++ {
		size := rows / folds
		if fold < rows%folds {
			size++
		}
		result[fold] = order[start : start+size]
		start += size
	}
	return result
}

//CrossValidate trains one model per fold on the other folds and measures its error
//on the fold. Folds run on up to Workers goroutines, each fold owns all of its trees.
func CrossValidate(ctx context.Context, rows []Row, params TrainParams, cv CVParams) (*CVReport, error) {
	if cv.Folds < 2 || cv.Folds > len(rows) {
		return nil, errors.Wrapf(ErrInvalidParams, "%d folds for %d rows", cv.Folds, len(rows))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	folds := SplitFolds(len(rows), cv.Folds, cv.Seed)
	results := make([]FoldResult, cv.Folds)

	group, ctx := errgroup.WithContext(ctx)
	if cv.Workers > 0 {
		group.SetLimit(cv.Workers)
	}
	for fold := range folds {
		fold := fold
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := runFold(rows, folds, fold, params)
			if err != nil {
				return errors.Wrapf(err, "fold %d", fold)
			}
			results[fold] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &CVReport{Folds: results}
	for _, result := range results {
		report.MeanErrorRate += result.ErrorRate
		report.MeanRules += float64(result.Rules)
	}
	report.MeanErrorRate /= float64(len(results))
	report.MeanRules /= float64(len(results))
	return report, nil
}

func runFold(rows []Row, folds [][]int, fold int, params TrainParams) (FoldResult, error) {
	started := time.Now()
	var train, test []Row
	for ind, indices := range folds {
		for _, rowIndex := range indices {
			if ind == fold {
				test = append(test, rows[rowIndex])
			} else {
				train = append(train, rows[rowIndex])
			}
		}
	}

	model, err := Train(train, params)
	if err != nil {
		return FoldResult{}, err
	}
	errorRate, err := model.ErrorRate(test)
	if err != nil {
		return FoldResult{}, err
	}

	result := FoldResult{
		Fold:          fold,
		TrainRows:     len(train),
		TestRows:      len(test),
		ErrorRate:     errorRate,
		FilteredRules: model.FilteredRules,
		MinedRules:    model.MinedRules,
		Rules:         model.Rules,
		Duration:      time.Since(started),
	}
	log.WithFields(log.Fields{
		"fold":       fold,
		"error_rate": result.ErrorRate,
		"rules":      result.Rules,
		"duration":   result.Duration,
	}).Info("fold done")
	return result, nil
}
