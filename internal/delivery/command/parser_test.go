package command

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line     string
		wantName Name
		wantArgs []int64
		wantErr  bool
	}{
		{line: "Initialize(5)", wantName: Initialize, wantArgs: []int64{5}},
		{line: "  Reserve( 3 , 7 )  ", wantName: Reserve, wantArgs: []int64{3, 7}},
		{line: "Available()", wantName: Available},
		{line: "PrintReservations( )", wantName: PrintReservations},
		{line: "ReleaseSeats(-2, 4)", wantName: ReleaseSeats, wantArgs: []int64{-2, 4}},
		{line: "Quit()", wantName: Quit},
		{line: "Reserve(1)", wantErr: true},
		{line: "Available(1)", wantErr: true},
		{line: "Reserve(a, 2)", wantErr: true},
		{line: "Reserve(1,)", wantErr: true},
		{line: "Dance(1)", wantErr: true},
		{line: "Initialize 5", wantErr: true},
		{line: "Initialize(5", wantErr: true},
		{line: "(5)", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("Parse(%q) err = %v, want ErrMalformed", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.line, err)
			}
			if cmd.Name != tt.wantName || !slices.Equal(cmd.Args, tt.wantArgs) {
				t.Errorf("Parse(%q) = %+v", tt.line, cmd)
			}
		})
	}
}
