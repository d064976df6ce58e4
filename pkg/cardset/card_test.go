package cardset

import "testing"

func TestParseCard(t *testing.T) {
	tests := []struct {
		input    string
		wantRank int
		wantSuit int
		wantErr  bool
	}{
		{"As", 12, 3, false},
		{"Kh", 11, 2, false},
		{"Qd", 10, 1, false},
		{"Jc", 9, 0, false},
		{"Ts", 8, 3, false},
		{"9h", 7, 2, false},
		{"2c", 0, 0, false},
		{"as", 12, 3, false}, // lowercase should work
		{"TD", 8, 1, false},  // mixed case
		{"", 0, 0, true},
		{"A", 0, 0, true},
		{"Asx", 0, 0, true},
		{"Xx", 0, 0, true},
		{"Ax", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr {
				if got.Rank() != tt.wantRank || got.Suit() != tt.wantSuit {
					t.Errorf("ParseCard(%q) = rank %d suit %d, want rank=%d suit=%d", tt.input, got.Rank(), got.Suit(), tt.wantRank, tt.wantSuit)
				}
			}
		})
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(12, 3), "As"},
		{NewCard(11, 2), "Kh"},
		{NewCard(8, 1), "Td"},
		{NewCard(0, 0), "2c"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.card.String(); got != tt.want {
				t.Errorf("Card.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFlop(t *testing.T) {
	got, err := ParseFlop("Qs Jh 2h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIdx1 := []int{2, 38, 43}
	for i, c := range got {
		if int(c) != wantIdx1[i] {
			t.Errorf("flop[%d] = %d, want %d", i, c, wantIdx1[i])
		}
	}

	got2, err := ParseFlop("Td9d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIdx := []int{18, 29, 33}
	for i, c := range got2 {
		if int(c) != wantIdx[i] {
			t.Errorf("flop2[%d] = %d, want %d", i, c, wantIdx[i])
		}
	}
}

func TestParseFlopErrors(t *testing.T) {
	tests := []string{
		"",
		"Qs Jh",
		"Qs Jh 2h 3h",
		"Qs Jh Qs", // duplicate
		"Xs Jh 2h", // bad rank
	}
	for _, in := range tests {
		if _, err := ParseFlop(in); err == nil {
			t.Errorf("ParseFlop(%q) expected error, got nil", in)
		}
	}
}

func TestMaskConflicts(t *testing.T) {
	c1 := NewCard(0, 0)
	c2 := NewCard(1, 1)
	m := NewMask(c1)
	if !m.Conflicts(c1) {
		t.Error("expected conflict with card already in mask")
	}
	if m.Conflicts(c2) {
		t.Error("did not expect conflict")
	}
	if !m.Conflicts(c2, c2) {
		t.Error("expected conflict between duplicated cards in the same call")
	}
}

func TestNotDealtSentinel(t *testing.T) {
	if NotDealt.Valid() {
		t.Error("NotDealt must not be a valid card")
	}
	m := NewMask(NotDealt)
	if m != 0 {
		t.Error("NotDealt must not set any mask bit")
	}
}
