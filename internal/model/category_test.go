package model

import "testing"

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		category string
		wantRank int
		wantOK   bool
	}{
		{category: "Housing", wantRank: 0, wantOK: true},
		{category: "Bills", wantRank: 1, wantOK: true},
		{category: "Food", wantRank: 3, wantOK: true},
		{category: "Work", wantRank: 10, wantOK: true},
		{category: "Crypto", wantOK: false},
		{category: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			rank, ok := PriorityRank(tt.category)
			if ok != tt.wantOK {
				t.Fatalf("PriorityRank(%q) ok = %v, want %v", tt.category, ok, tt.wantOK)
			}
			if ok && rank != tt.wantRank {
				t.Errorf("PriorityRank(%q) = %d, want %d", tt.category, rank, tt.wantRank)
			}
		})
	}
}

func TestHousingOutranksFood(t *testing.T) {
	housing, _ := PriorityRank("Housing")
	food, _ := PriorityRank("Food")
	if housing >= food {
		t.Errorf("Housing rank %d should be earlier than Food rank %d", housing, food)
	}
}
