// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package flags contains the urfave/cli app scaffolding and flag helpers
// shared by every command.
package flags

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// Categories group related flags in --help output.
const (
	MonitorCategory  = "CACHE MONITOR"
	DatabaseCategory = "DATABASE"
	NodeCategory     = "NODE CLIENT"
	LoggingCategory  = "LOGGING AND DEBUGGING"
)

// NewApp creates an app with the scaffolding common to every binary.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = usage
	app.Copyright = "Copyright 2026 The evmcache Authors"
	return app
}

// DirectoryString expands "~" and environment variables when set from the
// command line.
type DirectoryString string

func (s *DirectoryString) String() string {
	return string(*s)
}

func (s *DirectoryString) Set(value string) error {
	*s = DirectoryString(expandPath(value))
	return nil
}

var _ cli.Flag = (*DirectoryFlag)(nil)

// DirectoryFlag is a cli.Flag whose value is path-expanded on Set, grounded
// on the teacher's DataDirFlag/AncientFlag/KeyStoreDirFlag usage.
type DirectoryFlag struct {
	Name string

	Category string
	Usage    string
	Value    DirectoryString

	HasBeenSet bool
}

func (f *DirectoryFlag) Apply(set *flag.FlagSet) error {
	set.Var(&f.Value, f.Name, f.Usage)
	return nil
}

func (f *DirectoryFlag) Names() []string { return []string{f.Name} }
func (f *DirectoryFlag) IsSet() bool     { return f.HasBeenSet }
func (f *DirectoryFlag) String() string {
	return fmt.Sprintf("--%s value\t%s (default: %q)", f.Name, f.Usage, f.Value)
}
func (f *DirectoryFlag) TakesValue() bool    { return true }
func (f *DirectoryFlag) GetUsage() string    { return f.Usage }
func (f *DirectoryFlag) GetValue() string    { return f.Value.String() }
func (f *DirectoryFlag) IsVisible() bool     { return true }
func (f *DirectoryFlag) IsRequired() bool    { return false }
func (f *DirectoryFlag) GetCategory() string { return f.Category }
func (f *DirectoryFlag) GetEnvVars() []string { return nil }

// HomeDir returns the calling user's home directory, or "" if it cannot be
// determined.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// expandPath expands a leading "~" to the user's home directory and expands
// any $VAR / ${VAR} environment references, then cleans the result.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}
