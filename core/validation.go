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

import "fmt"

// ValidateTextUnit validates a TextUnit according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - UnitType must not be empty
//   - Sequence and Level must not be negative
//   - Collection must carry both tenant and chat ids
//
// NOT validated (populated by the document pipeline):
//   - PageNumber (0 means unknown)
//   - SectionTitle and Metadata (optional)
func ValidateTextUnit(unit *TextUnit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit is nil", ErrInvalidUnit)
	}

	if unit.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptyText)
	}

	if unit.UnitType == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrEmptyUnitType)
	}

	if unit.Sequence < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrNegativeSequence)
	}

	if unit.Level < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, ErrNegativeLevel)
	}

	if err := ValidateCollectionID(unit.Collection); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUnit, err)
	}

	return nil
}

// ValidateCollectionID validates that a CollectionID names both sides of the
// tenant/chat pair.
func ValidateCollectionID(collection CollectionID) error {
	if collection.Tenant == 0 || collection.Chat == 0 {
		return ErrZeroCollection
	}
	return nil
}

// ValidateRetrievalMode validates that a RetrievalMode is one of the closed
// set of strategies.
func ValidateRetrievalMode(mode RetrievalMode) error {
	switch mode {
	case ModeDenseOnly, ModeSparseOnly, ModeHybrid, ModeGraphEnhanced:
		return nil
	}
	return fmt.Errorf("invalid retrieval mode %q", mode)
}
