package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"tasklist": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			// Keep the user's global config and environment out of the scripts
			configHome := filepath.Join(env.WorkDir, ".config")
			if err := os.MkdirAll(configHome, 0o755); err != nil {
				return err
			}
			env.Setenv("XDG_CONFIG_HOME", configHome)
			env.Setenv("TASKLIST_STORE", "")
			env.Setenv("TASKLIST_ADDR", "")
			env.Setenv("TASKLIST_LOG_LEVEL", "error")
			env.Setenv("SECRET_KEY", "")
			return nil
		},
	})
}
