package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustCounts(t *testing.T) {
	yes := ChoiceYes
	no := ChoiceNo

	tests := []struct {
		name    string
		yes, no int
		old     *Choice
		next    Choice
		wantYes int
		wantNo  int
	}{
		{name: "first yes", yes: 0, no: 0, old: nil, next: ChoiceYes, wantYes: 1, wantNo: 0},
		{name: "first no", yes: 2, no: 0, old: nil, next: ChoiceNo, wantYes: 2, wantNo: 1},
		{name: "yes to no", yes: 3, no: 1, old: &yes, next: ChoiceNo, wantYes: 2, wantNo: 2},
		{name: "no to yes", yes: 3, no: 1, old: &no, next: ChoiceYes, wantYes: 4, wantNo: 0},
		{name: "repeat yes is a no-op", yes: 3, no: 1, old: &yes, next: ChoiceYes, wantYes: 3, wantNo: 1},
		{name: "repeat no is a no-op", yes: 3, no: 1, old: &no, next: ChoiceNo, wantYes: 3, wantNo: 1},
		{name: "never goes negative", yes: 0, no: 0, old: &yes, next: ChoiceNo, wantYes: 0, wantNo: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotYes, gotNo := AdjustCounts(tt.yes, tt.no, tt.old, tt.next)
			assert.Equal(t, tt.wantYes, gotYes)
			assert.Equal(t, tt.wantNo, gotNo)
		})
	}
}

func TestAdjustCountsPreservesTotalOnSwitch(t *testing.T) {
	old := ChoiceYes
	gotYes, gotNo := AdjustCounts(5, 3, &old, ChoiceNo)
	assert.Equal(t, 8, gotYes+gotNo)
}
