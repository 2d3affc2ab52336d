package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/manifest"
	"github.com/blackwell-systems/envbin/internal/meta"
	"github.com/blackwell-systems/envbin/internal/paths"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List environments, their exposures, and installed packages",
	Long: `List every environment directory under the envs root together with the
exposures declared for it in the manifest and the packages recorded in its
metadata directory.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	_, root, err := resolveRoots()
	if err != nil {
		return err
	}

	mPath, err := manifestPath()
	if err != nil {
		return err
	}
	m, err := manifest.Load(mPath)
	if err != nil {
		return err
	}

	dirs, err := root.Directories(cmd.Context())
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		fmt.Println("No environments installed.")
		return nil
	}

	for _, dir := range dirs {
		name, err := envs.ParseEnvironmentName(filepath.Base(dir))
		if err != nil {
			// Not an environment envbin manages; skip it.
			continue
		}

		fmt.Println(name)
		if channels := channelSummary(m, name); channels != "" {
			fmt.Printf("  channels: %s\n", channels)
		}
		fmt.Printf("  exposed: %s\n", exposedSummary(m, name))
		fmt.Printf("  packages: %s\n", packageSummary(paths.EnvDirFromPath(dir)))
	}
	return nil
}

func channelSummary(m *manifest.Manifest, name envs.EnvironmentName) string {
	channels, err := m.Channels(name)
	if err != nil {
		return fmt.Sprintf("(invalid: %v)", err)
	}
	if len(channels) == 0 {
		return ""
	}
	parts := make([]string, len(channels))
	for i, channel := range channels {
		parts[i] = channel.String()
	}
	return strings.Join(parts, ", ")
}

func exposedSummary(m *manifest.Manifest, name envs.EnvironmentName) string {
	mappings, err := m.Mappings(name)
	if err != nil {
		return fmt.Sprintf("(invalid: %v)", err)
	}
	if len(mappings) == 0 {
		return "(none)"
	}
	parts := make([]string, len(mappings))
	for i, mapping := range mappings {
		parts[i] = mapping.String()
	}
	return strings.Join(parts, ", ")
}

func packageSummary(env paths.EnvDir) string {
	records, err := meta.ReadAll(env.MetaDir())
	if err != nil {
		if errors.Is(err, meta.ErrNoRecords) || errors.Is(err, os.ErrNotExist) {
			return "(no package metadata)"
		}
		return fmt.Sprintf("(unavailable: %v)", err)
	}
	parts := make([]string, len(records))
	for i, record := range records {
		parts[i] = fmt.Sprintf("%s %s", record.Name, record.Version)
	}
	return strings.Join(parts, ", ")
}
