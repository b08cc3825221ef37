// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTolerances(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tolerances
		wantErr bool
	}{
		{
			name:  "empty document keeps defaults",
			input: "",
			want:  DefaultTolerances(),
		},
		{
			name:  "partial override",
			input: "coordEpsilon: 0.5\ncoordDecimals: 2\n",
			want: Tolerances{
				CoordEpsilon:  0.5,
				AngleEpsilon:  2.0,
				MinAngle:      5.0,
				CoordDecimals: 2,
				LineLength:    50000000,
			},
		},
		{
			name:    "invalid value",
			input:   "coordEpsilon: -1\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			input:   "coordEpsilon: [",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTolerances([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTolerances() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTolerances() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
