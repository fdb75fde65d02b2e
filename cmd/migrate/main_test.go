package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr      error
	versionErr error
	version    uint
	steps      []int
	forced     []int
}

func (f *fakeMigrator) Up() error   { return f.upErr }
func (f *fakeMigrator) Down() error { return migrate.ErrNoChange }
func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, f.versionErr }
func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	return nil
}

func TestRunCommands(t *testing.T) {
	tests := []struct {
		name    string
		m       *fakeMigrator
		args    []string
		wantOut string
		wantErr bool
	}{
		{name: "up", m: &fakeMigrator{}, args: []string{"up"}, wantOut: "Migrated up successfully"},
		{name: "up no change", m: &fakeMigrator{upErr: migrate.ErrNoChange}, args: []string{"up"}, wantOut: "Migrated up successfully"},
		{name: "up failure", m: &fakeMigrator{upErr: errors.New("dirty database")}, args: []string{"up"}, wantErr: true},
		{name: "down no change", m: &fakeMigrator{}, args: []string{"down"}, wantOut: "Migrated down successfully"},
		{name: "steps", m: &fakeMigrator{}, args: []string{"steps", "-1"}, wantOut: "Applied -1 step(s)"},
		{name: "steps missing number", m: &fakeMigrator{}, args: []string{"steps"}, wantErr: true},
		{name: "version", m: &fakeMigrator{version: 2}, args: []string{"version"}, wantOut: "Version: 2, Dirty: false"},
		{name: "version fresh database", m: &fakeMigrator{versionErr: migrate.ErrNilVersion}, args: []string{"version"}, wantOut: "No migrations applied"},
		{name: "force", m: &fakeMigrator{}, args: []string{"force", "1"}, wantOut: "Forced version to 1"},
		{name: "force bad number", m: &fakeMigrator{}, args: []string{"force", "one"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.m, tt.args, &out)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, output %q", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("run(%v) failed: %v", tt.args, err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Fatalf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run(&fakeMigrator{}, []string{"sideways"}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
}

func TestRunPassesArguments(t *testing.T) {
	m := &fakeMigrator{}
	if err := run(m, []string{"steps", "3"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("steps: %v", err)
	}
	if err := run(m, []string{"force", "7"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("force: %v", err)
	}
	if len(m.steps) != 1 || m.steps[0] != 3 || len(m.forced) != 1 || m.forced[0] != 7 {
		t.Fatalf("steps=%v forced=%v", m.steps, m.forced)
	}
}
