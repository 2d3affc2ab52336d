package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/manifest"
)

var (
	exposeEnvironment string

	exposeCmd = &cobra.Command{
		Use:   "expose NAME[=EXECUTABLE]...",
		Short: "Declare exposed executables and materialize their launchers",
		Long: `Add one or more exposure declarations to the manifest and immediately
reconcile the environment so the launchers appear in the bin directory.

Each argument is either NAME=EXECUTABLE, exposing EXECUTABLE from the
environment under the command name NAME, or a bare NAME exposing the
executable of the same name.`,
		Example: `  # Expose python3 from the "python" environment
  envbin expose python3 --environment python

  # Expose it under a different command name
  envbin expose py3=python3 --environment python`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExpose,
	}
)

func init() {
	exposeCmd.Flags().StringVarP(&exposeEnvironment, "environment", "e", "", "environment to expose from (required)")
	exposeCmd.MarkFlagRequired("environment")
}

func runExpose(cmd *cobra.Command, args []string) error {
	name, err := envs.ParseEnvironmentName(exposeEnvironment)
	if err != nil {
		return err
	}

	mappings := make([]envs.Mapping, 0, len(args))
	for _, arg := range args {
		mapping, err := parseMappingArg(arg)
		if err != nil {
			return err
		}
		mappings = append(mappings, mapping)
	}

	mPath, err := manifestPath()
	if err != nil {
		return err
	}
	m, err := manifest.Load(mPath)
	if err != nil {
		return err
	}
	for _, mapping := range mappings {
		m.AddExposed(name, mapping)
	}
	if err := m.Save(mPath); err != nil {
		return err
	}

	bin, root, err := resolveRoots()
	if err != nil {
		return err
	}
	ledger, err := reconcileEnv(cmd.Context(), bin, root, m, name)
	if ledger != nil {
		if histErr := recordHistory(ledger); histErr != nil && err == nil {
			err = histErr
		}
		ledger.Report(os.Stderr)
	}
	return err
}

// parseMappingArg parses "NAME=EXECUTABLE" or a bare "NAME" (which exposes
// the executable of the same name).
func parseMappingArg(arg string) (envs.Mapping, error) {
	exposedPart, executable := arg, ""
	if idx := strings.IndexByte(arg, '='); idx >= 0 {
		exposedPart, executable = arg[:idx], arg[idx+1:]
		if executable == "" {
			return envs.Mapping{}, fmt.Errorf("invalid mapping %q: empty executable name", arg)
		}
	} else {
		executable = arg
	}

	exposed, err := envs.ParseExposedName(exposedPart)
	if err != nil {
		return envs.Mapping{}, err
	}
	return envs.NewMapping(exposed, executable), nil
}
