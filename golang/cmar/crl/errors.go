package crl

import "github.com/pkg/errors"

var (
	//ErrEmptyLabelSupport is returned by the classifier when no class support is known.
	ErrEmptyLabelSupport = errors.New("label support map is empty")
	//ErrInvalidParams marks a rejected set of training parameters.
	ErrInvalidParams = errors.New("invalid parameters")
	//ErrUnknownFormat is returned for a dataset file with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown dataset format")
	//ErrEmptyDataset is returned when a source yields no rows.
	ErrEmptyDataset = errors.New("dataset is empty")
)

//HandleError panics on errors that can only come from a programming mistake,
//such as an out of range tensor coordinate.
func HandleError(err error) {
	if err != nil {
		panic(errors.WithStack(err))
	}
}
