// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"io"
	"strconv"
	"sync"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"github.com/tarstars/class_association_rules/golang/cmar/crl"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	models            = make(map[uint64]*crl.Model)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeModel(m *crl.Model) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	models[handle] = m
	nextHandle++
	return handle
}

func fetchModel(handle uint64) (*crl.Model, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	model, ok := models[handle]
	if !ok {
		return nil, errors.New("invalid model handle")
	}
	return model, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(models, uint64(handle))
}

func int64Slice(ptr *C.longlong, length int) ([]int64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(ptr)), length), nil
}

//buildRecords copies a row-major rows x cols matrix of codes.
func buildRecords(ptr *C.longlong, rows, cols C.int) ([][]int, error) {
	r := int(rows)
	c := int(cols)
	if r < 0 || c < 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	data, err := int64Slice(ptr, r*c)
	if err != nil {
		return nil, err
	}
	records := make([][]int, r)
	for p := 0; p < r; p++ {
		records[p] = make([]int, c)
		for q := 0; q < c; q++ {
			records[p][q] = int(data[p*c+q])
		}
	}
	return records, nil
}

//export TrainModel
func TrainModel(
	valuesPtr *C.longlong,
	labelsPtr *C.longlong,
	rows C.int,
	cols C.int,
	minSupport C.double,
	minConfidence C.double,
	coverageThreshold C.int,
) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		log.SetOutput(io.Discard)
	})

	if rows <= 0 {
		setLastError(errors.New("rows must be positive"))
		return 0
	}

	records, err := buildRecords(valuesPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 0
	}
	labels, err := int64Slice(labelsPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 0
	}

	trainRows := make([]crl.Row, len(records))
	for ind, record := range records {
		trainRows[ind] = crl.Row{Values: record, Label: strconv.FormatInt(labels[ind], 10)}
	}

	params := crl.DefaultTrainParams()
	params.MinSupport = float64(minSupport)
	params.MinConfidence = float64(minConfidence)
	params.CoverageThreshold = int(coverageThreshold)

	model, err := crl.Train(trainRows, params)
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeModel(model))
}

//export Predict
func Predict(
	handle C.ulonglong,
	valuesPtr *C.longlong,
	rows C.int,
	cols C.int,
	outputPtr *C.longlong,
) C.int {
	setLastError(nil)
	model, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	records, err := buildRecords(valuesPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 2
	}

	out, err := int64Slice(outputPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 3
	}

	for ind, record := range records {
		label, err := model.Predict(record)
		if err != nil {
			setLastError(err)
			return 4
		}
		code, err := strconv.ParseInt(label, 10, 64)
		if err != nil {
			setLastError(err)
			return 5
		}
		out[ind] = code
	}
	return 0
}

//export RuleCount
func RuleCount(handle C.ulonglong) C.int {
	setLastError(nil)
	model, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	return C.int(model.Rules)
}

//export RenderRules
func RenderRules(handle C.ulonglong, path, figureType *C.char) C.int {
	setLastError(nil)
	model, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goFigureType := C.GoString(figureType)
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if err := model.Store.RenderRules(C.GoString(path), goFigureType, crl.Metadata{}); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
