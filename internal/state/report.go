package state

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/output"
)

// Report prunes the ledger and renders it to w, one line per event or per
// coalesced group, in recorded order.
//
// Runs of immediately-adjacent exposure-add events collapse into a single
// grouped entry; an UpdatedExposed run absorbs both further updates and
// directly-following adds into one "Updated executables" group. Grouping
// never reorders events or merges non-adjacent ones.
func (s *StateChanges) Report(w io.Writer) {
	s.Prune()
	color := output.ColorEnabled(w)

	for _, env := range s.order {
		seq := s.changes[env]
		if len(seq) == 0 {
			continue
		}

		for i := 0; i < len(seq); {
			change := seq[i]
			switch change.Kind() {
			case KindAddedExposed, KindUpdatedExposed:
				names := []envs.ExposedName{change.ExposedName()}
				j := i + 1
				for j < len(seq) &&
					(seq[j].Kind() == KindAddedExposed || seq[j].Kind() == change.Kind()) {
					names = append(names, seq[j].ExposedName())
					j++
				}
				writeExposedGroup(w, color, change.Kind(), env, names)
				i = j
			case KindRemovedExposed:
				fmt.Fprintf(w, "%sRemoved exposed executable %s from environment %s.\n",
					output.Marker(color),
					output.Name(change.ExposedName().String(), color),
					output.Name(env.String(), color))
				i++
			case KindAddedPackage:
				pkg := change.Package()
				fmt.Fprintf(w, "%sAdded package %s=%s to environment %s.\n",
					output.Marker(color),
					output.Green("`"+pkg.Name+"`", color),
					output.Blue("`"+pkg.Version+"`", color),
					output.Name(env.String(), color))
				i++
			case KindAddedEnvironment:
				fmt.Fprintf(w, "%sAdded environment %s.\n",
					output.Marker(color), output.Name(env.String(), color))
				i++
			case KindRemovedEnvironment:
				fmt.Fprintf(w, "%sRemoved environment %s.\n",
					output.Marker(color), output.Name(env.String(), color))
				i++
			case KindUpdatedEnvironment:
				fmt.Fprintf(w, "%sUpdated environment %s.\n",
					output.Marker(color), output.Name(env.String(), color))
				i++
			default:
				i++
			}
		}
	}
}

func writeExposedGroup(w io.Writer, color bool, kind Kind, env envs.EnvironmentName, names []envs.ExposedName) {
	verb, preposition := "Exposed", "from"
	if kind == KindUpdatedExposed {
		verb, preposition = "Updated", "of"
	}

	if len(names) == 1 {
		fmt.Fprintf(w, "%s%s executable %s %s environment %s.\n",
			output.Marker(color), verb,
			output.Name(names[0].String(), color),
			preposition,
			output.Name(env.String(), color))
		return
	}

	fmt.Fprintf(w, "%s%s executables %s environment %s:\n",
		output.Marker(color), verb, preposition, output.Name(env.String(), color))
	for _, name := range names {
		fmt.Fprintf(w, "   - %s\n", output.Name(name.String(), color))
	}
}
