package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/distribution/reference"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/sorter"
	"github.com/nicholas-fedor/composer/pkg/types"
)

// errUnknownSort indicates an unsupported --sort value.
var errUnknownSort = errors.New("unknown sort order")

// notCreated marks declared entries without a backing container.
const notCreated = "-"

// newListCommand creates the ls subcommand.
func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [LABEL...]",
		Aliases: []string{"ps"},
		Short:   "List the containers of the project",
		Args:    cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, labels []string) error {
			model, engine, err := loadModel(c.Context(), c)
			if err != nil {
				return err
			}

			if engine != nil {
				defer closeEngine(engine)
			}

			warnUnknownLabels(model, labels)

			sortBy, _ := c.Flags().GetString("sort")
			quiet, _ := c.Flags().GetBool("quiet")

			return listEntries(c.OutOrStdout(), model.Select(labels...), sortBy, quiet)
		},
	}

	cmd.Flags().String("sort", "label", `Sort order: "label" or "created"`)
	cmd.Flags().BoolP("quiet", "q", false, "Only print labels")

	return cmd
}

// listEntries writes one row per entry.
func listEntries(out io.Writer, entries []*compose.Entry, sortBy string, quiet bool) error {
	switch sortBy {
	case "label":
	case "created":
		_ = sorter.SortByCreated(entries)
	default:
		return fmt.Errorf("%w: %q", errUnknownSort, sortBy)
	}

	if quiet {
		for _, entry := range entries {
			fmt.Fprintln(out, entry.Label())
		}

		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tCONTAINER\tIMAGE\tSTATE\tCREATED\tLINKS")

	for _, entry := range entries {
		attrs := entry.Attributes()
		state, created := runtimeState(entry)

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Label(),
			attrs.FullName,
			familiarImage(attrs.Image),
			state,
			created,
			strings.Join(slices.Sorted(maps.Keys(attrs.Links)), ","),
		)
	}

	return w.Flush() //nolint:wrapcheck
}

// runtimeState returns the engine state and age of the entry's container.
func runtimeState(entry *compose.Entry) (string, string) {
	container, ok := entry.Handle().(types.Container)
	if !ok {
		return "not created", notCreated
	}

	info := container.ContainerInfo()
	if info == nil || info.ContainerJSONBase == nil {
		return "unknown", notCreated
	}

	state := "unknown"
	if info.State != nil && info.State.Status != "" {
		state = string(info.State.Status)
	}

	created, err := time.Parse(time.RFC3339Nano, info.Created)
	if err != nil {
		return state, notCreated
	}

	return state, units.HumanDuration(time.Since(created)) + " ago"
}

// familiarImage shortens a normalized image reference, e.g.
// "docker.io/library/nginx:latest" to "nginx:latest".
func familiarImage(image string) string {
	if image == "" {
		return notCreated
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image
	}

	return reference.FamiliarString(named)
}
