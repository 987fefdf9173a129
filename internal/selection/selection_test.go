package selection

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		max     int
		want    []int
		wantErr bool
	}{
		{name: "single number", input: "3", max: 5, want: []int{3}},
		{name: "comma separated", input: "1, 3,5", max: 5, want: []int{1, 3, 5}},
		{name: "range", input: "7-9", max: 10, want: []int{7, 8, 9}},
		{name: "mixed", input: "1,3,7-9", max: 10, want: []int{1, 3, 7, 8, 9}},
		{name: "all", input: "all", max: 3, want: []int{1, 2, 3}},
		{name: "all uppercase", input: "ALL", max: 2, want: []int{1, 2}},
		{name: "out of range dropped", input: "2,12", max: 5, want: []int{2}},
		{name: "duplicates kept once", input: "2,2,1-3", max: 5, want: []int{2, 1, 3}},
		{name: "empty input", input: "  ", max: 5, wantErr: true},
		{name: "not a number", input: "1,two", max: 5, wantErr: true},
		{name: "reversed range", input: "5-2", max: 5, wantErr: true},
		{name: "dangling comma", input: "1,", max: 5, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input, tt.max)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
