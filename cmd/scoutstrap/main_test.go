package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/scoutstrap/scoutstrap/cmd/scoutstrap/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"scoutstrap": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Point HOME at WORK so ~/.docker and ~/.scoutstrap.yaml
			// resolve inside the temp dir.
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			e.Vars = append(e.Vars, "USERPROFILE="+e.WorkDir)
			return nil
		},
	})
}
