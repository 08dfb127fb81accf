package core

import (
	"errors"
	"testing"
)

func TestValidateTextUnit(t *testing.T) {
	collection := CollectionID{Tenant: 1, Chat: 2}

	tests := []struct {
		name    string
		unit    *TextUnit
		wantErr error
	}{
		{
			name: "valid unit",
			unit: &TextUnit{
				ID:         1,
				Collection: collection,
				DocumentID: 7,
				UnitType:   "paragraph",
				Text:       "Payment is due within thirty days.",
				Sequence:   0,
			},
			wantErr: nil,
		},
		{
			name: "valid heading with page number",
			unit: &TextUnit{
				ID:         2,
				Collection: collection,
				DocumentID: 7,
				UnitType:   "heading",
				Text:       "Article 27. Liability",
				Sequence:   3,
				Level:      1,
				PageNumber: 12,
			},
			wantErr: nil,
		},
		{
			name:    "nil unit",
			unit:    nil,
			wantErr: ErrInvalidUnit,
		},
		{
			name: "empty text",
			unit: &TextUnit{
				Collection: collection,
				UnitType:   "paragraph",
				Text:       "",
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "empty unit type",
			unit: &TextUnit{
				Collection: collection,
				UnitType:   "",
				Text:       "some text",
			},
			wantErr: ErrEmptyUnitType,
		},
		{
			name: "negative sequence",
			unit: &TextUnit{
				Collection: collection,
				UnitType:   "paragraph",
				Text:       "some text",
				Sequence:   -1,
			},
			wantErr: ErrNegativeSequence,
		},
		{
			name: "negative level",
			unit: &TextUnit{
				Collection: collection,
				UnitType:   "paragraph",
				Text:       "some text",
				Level:      -2,
			},
			wantErr: ErrNegativeLevel,
		},
		{
			name: "missing tenant",
			unit: &TextUnit{
				Collection: CollectionID{Chat: 2},
				UnitType:   "paragraph",
				Text:       "some text",
			},
			wantErr: ErrZeroCollection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTextUnit(tt.unit)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTextUnit() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTextUnit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRetrievalMode(t *testing.T) {
	for _, mode := range []RetrievalMode{ModeDenseOnly, ModeSparseOnly, ModeHybrid, ModeGraphEnhanced} {
		if err := ValidateRetrievalMode(mode); err != nil {
			t.Errorf("ValidateRetrievalMode(%q) unexpected error: %v", mode, err)
		}
	}

	if err := ValidateRetrievalMode("keyword_only"); err == nil {
		t.Error("ValidateRetrievalMode() expected error for unknown mode")
	}
}

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("Article 27 states the liability terms")
	id2 := IDFromContent("Article 27 states the liability terms")
	if id1 != id2 {
		t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
	}

	other := IDFromContent("Article 28 states the liability terms")
	if other == id1 {
		t.Error("IDFromContent() produced the same ID for different content")
	}
}

func TestUnitIDForDistinguishesSequence(t *testing.T) {
	a := UnitIDFor(7, 0, "same text")
	b := UnitIDFor(7, 1, "same text")
	if a == b {
		t.Error("UnitIDFor() must distinguish units by sequence")
	}
}
