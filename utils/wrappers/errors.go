// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

// Errs accumulates the first non-nil error it is handed.
type Errs struct{ Err error }

func (errs *Errs) Errored() bool { return errs.Err != nil }

// Add records the first non-nil error in [errors], unless an error has
// already been recorded.
func (errs *Errs) Add(errors ...error) {
	if errs.Err == nil {
		for _, err := range errors {
			if err != nil {
				errs.Err = err
				break
			}
		}
	}
}
