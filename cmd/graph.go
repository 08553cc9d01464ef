package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/sorter"
)

// newGraphCommand creates the graph subcommand.
func newGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the link dependencies of the project in start order",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			model, engine, err := loadModel(c.Context(), c)
			if err != nil {
				return err
			}

			if engine != nil {
				defer closeEngine(engine)
			}

			return writeGraph(c.OutOrStdout(), model)
		},
	}
}

// writeGraph prints every entry with its requirements and dependents.
//
// Running containers contribute the links and depends_on labels they were
// created with. Entries are listed dependencies first. When the links form a cycle, entries
// are listed by label and the entries on a cycle are marked.
func writeGraph(out io.Writer, model *compose.Model) error {
	entries := model.Entries()

	cyclic := map[string]bool{}

	if err := sorter.SortByDependencies(entries); err != nil {
		var circular sorter.CircularReferenceError
		if !errors.As(err, &circular) {
			return fmt.Errorf("failed to order entries: %w", err)
		}

		logrus.WithError(err).Warn("Links form a cycle, listing by label")

		entries = model.Entries()
		cyclic = sorter.DetectCycles(entries)
	}

	for _, entry := range entries {
		line := entry.Label()
		if cyclic[entry.Label()] {
			line += " (cycle)"
		}

		if deps := model.Requires(entry.Label()); len(deps) > 0 {
			line += " -> " + strings.Join(deps, ", ")
		}

		if dependents := model.Dependents(entry.Label()); len(dependents) > 0 {
			line += " <- " + strings.Join(dependents, ", ")
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
	}

	return nil
}
