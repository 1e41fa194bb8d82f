// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package canon

import "fmt"

// ErrorCode identifies the kind of CanonicalizeError.
type ErrorCode string

const (
	// ConfigurationError covers illegal or incomplete option
	// combinations. A missing or unknown algorithm is reported with
	// MissingAlgorithm or InvalidAlgorithm instead.
	ConfigurationError ErrorCode = "configuration error"
	// MissingAlgorithm means Options.Algorithm was empty.
	MissingAlgorithm ErrorCode = "missing algorithm"
	// InvalidAlgorithm means Options.Algorithm named an algorithm this
	// core does not implement (only URDNA2015 is in scope, spec §1).
	InvalidAlgorithm ErrorCode = "invalid algorithm"
	// DeepIterationsExceeded means N-degree recursion exceeded
	// Options.MaxDeepIterations.
	DeepIterationsExceeded ErrorCode = "deep iterations exceeded"
	// SerializationError is returned by ReadDataset on malformed
	// N-Quads input.
	SerializationError ErrorCode = "serialization error"
	// InternalInvariantViolated marks a defect in the implementation:
	// it should be unreachable in a correct build.
	InternalInvariantViolated ErrorCode = "internal invariant violated"
)

// CanonicalizeError is the error type returned by this package.
type CanonicalizeError struct {
	Code    ErrorCode
	Details interface{}
}

// NewCanonicalizeError creates a CanonicalizeError with the given code
// and (optional) details.
func NewCanonicalizeError(code ErrorCode, details interface{}) *CanonicalizeError {
	return &CanonicalizeError{Code: code, Details: details}
}

// Error implements the error interface.
func (e *CanonicalizeError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return string(e.Code)
}
