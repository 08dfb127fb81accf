// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidUnit indicates a TextUnit failed validation.
	ErrInvalidUnit = errors.New("invalid text unit")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("unit text cannot be empty")

	// ErrEmptyUnitType indicates the UnitType field is empty.
	ErrEmptyUnitType = errors.New("unit type cannot be empty")

	// ErrNegativeSequence indicates Sequence is below zero.
	ErrNegativeSequence = errors.New("sequence cannot be negative")

	// ErrNegativeLevel indicates Level is below zero.
	ErrNegativeLevel = errors.New("level cannot be negative")

	// ErrZeroCollection indicates a CollectionID with a zero tenant or chat.
	ErrZeroCollection = errors.New("collection requires tenant and chat ids")
)
