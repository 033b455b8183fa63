package util

import (
	"reflect"
	"testing"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{
			name: "single value",
			spec: "5",
			want: []int{5},
		},
		{
			name: "simple range",
			spec: "1-5",
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "comma separated",
			spec: "1,3,5",
			want: []int{1, 3, 5},
		},
		{
			name: "mixed",
			spec: "1-3,5,7-9",
			want: []int{1, 2, 3, 5, 7, 8, 9},
		},
		{
			name: "with spaces",
			spec: "1 - 3, 5",
			want: []int{1, 2, 3, 5},
		},
		{
			name: "duplicates removed",
			spec: "1-3,2-4",
			want: []int{1, 2, 3, 4},
		},
		{
			name: "empty string",
			spec: "",
			want: nil,
		},
		{
			name:    "invalid - start > end",
			spec:    "5-1",
			wantErr: true,
		},
		{
			name:    "invalid - not a number",
			spec:    "abc",
			wantErr: true,
		},
		{
			name:    "invalid - bad range format",
			spec:    "1-2-3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExpandRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestCompactRange(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   string
	}{
		{
			name:   "consecutive",
			values: []int{1, 2, 3, 4, 5},
			want:   "1-5",
		},
		{
			name:   "non-consecutive",
			values: []int{1, 3, 5},
			want:   "1,3,5",
		},
		{
			name:   "mixed",
			values: []int{1, 2, 3, 5, 7, 8, 9},
			want:   "1-3,5,7-9",
		},
		{
			name:   "single value",
			values: []int{5},
			want:   "5",
		},
		{
			name:   "empty",
			values: []int{},
			want:   "",
		},
		{
			name:   "unsorted with duplicates",
			values: []int{5, 3, 1, 2, 3, 4},
			want:   "1-5",
		},
		{
			name:   "adjacent pair folds",
			values: []int{14, 16, 25, 26, 29},
			want:   "14,16,25-26,29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompactRange(tt.values)
			if got != tt.want {
				t.Errorf("CompactRange(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
	}{
		{
			name: "already canonical",
			spec: "14,16,25-26,29",
			want: "14,16,25-26,29",
		},
		{
			name: "unsorted",
			spec: "29,14,25-26,16",
			want: "14,16,25-26,29",
		},
		{
			name: "adjacent singles fold",
			spec: "25,26",
			want: "25-26",
		},
		{
			name: "empty",
			spec: "",
			want: "",
		},
		{
			name:    "invalid",
			spec:    "a-b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("NormalizeRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NormalizeRange(%q) = %q, want %q", tt.spec, got, tt.want)
			}
		})
	}
}

func TestValidateVLANID(t *testing.T) {
	tests := []struct {
		vlan    int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{4094, false},
		{0, true},
		{4095, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateVLANID(tt.vlan)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVLANID(%d) error = %v, wantErr %v", tt.vlan, err, tt.wantErr)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// Test that ExpandRange and CompactRange are inverses
	original := "1-3,5,7-10,15"
	expanded, err := ExpandRange(original)
	if err != nil {
		t.Fatalf("ExpandRange failed: %v", err)
	}
	compacted := CompactRange(expanded)
	if compacted != original {
		t.Errorf("Round trip failed: %q -> %v -> %q", original, expanded, compacted)
	}
}

func TestExpandRange_EmptyParts(t *testing.T) {
	// Test with empty parts after comma
	got, err := ExpandRange("1, , 3")
	if err != nil {
		t.Errorf("ExpandRange() unexpected error: %v", err)
	}
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandRange(\"1, , 3\") = %v, want %v", got, want)
	}
}

func TestExpandRange_InvalidEndValue(t *testing.T) {
	_, err := ExpandRange("1-abc")
	if err == nil {
		t.Error("Expected error for invalid end value")
	}
}
