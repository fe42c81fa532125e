// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"
)

// varianceEpsilon treats columns with smaller variance as constant.
const varianceEpsilon = 1e-12

// StandardScaler rescales columns to zero mean and unit variance.
//
// A scaler is fitted per matrix and per request; it is never shared between
// the title and user matrices.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit computes per-column mean and population standard deviation.
// Fitting an empty matrix leaves the scaler empty.
func (s *StandardScaler) Fit(rows [][]float64) error {
	s.Mean, s.Scale = nil, nil
	if len(rows) == 0 {
		return nil
	}

	dim := len(rows[0])
	mean := make([]float64, dim)
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), dim)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		variance := scale[j] / n
		if variance < varianceEpsilon {
			scale[j] = 0
			continue
		}
		scale[j] = math.Sqrt(variance)
	}

	s.Mean, s.Scale = mean, scale
	return nil
}

// Transform returns a scaled copy of rows. Constant columns map to 0.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d columns, scaler fitted on %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.Scale[j] == 0 {
				continue
			}
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and transforms rows in one step.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
