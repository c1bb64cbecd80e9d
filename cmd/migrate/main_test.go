package main

import (
	"strings"
	"testing"

	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

func TestValidateCommand(t *testing.T) {
	cases := []struct {
		args    []string
		wantErr string
	}{
		{args: []string{"up"}},
		{args: []string{"down"}},
		{args: []string{"version"}},
		{args: []string{"force", "3"}},
		{args: []string{"force"}, wantErr: "requires a version"},
		{args: []string{"force", "x"}, wantErr: "invalid version"},
		{args: []string{"sideways"}, wantErr: "unknown command"},
	}
	for _, tc := range cases {
		err := validateCommand(tc.args[0], tc.args)
		if tc.wantErr == "" && err != nil {
			t.Errorf("%v: unexpected error %v", tc.args, err)
		}
		if tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)) {
			t.Errorf("%v: expected error containing %q, got %v", tc.args, tc.wantErr, err)
		}
	}
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	err := run(nil, "", logging.New("error"))
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}
