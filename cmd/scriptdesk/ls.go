package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/collection"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/spf13/cobra"
)

var lsFilter string

var lsCmd = &cobra.Command{
	Use:   "ls [section]",
	Short: "List sections or the items of a section",
	Long: `Without arguments, ls loads every section and prints its state.
With a section name it prints the section's items.

Example:
  scriptdesk ls
  scriptdesk ls listeners --filter nightly`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringVar(&lsFilter, "filter", "", "case-insensitive name filter")
}

func runLs(cmd *cobra.Command, args []string) error {
	d := newDesk(nil)
	defer d.Unmount()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		loadErr := d.Load(cmd.Context())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tSTATE\tITEMS\tERROR")
		for _, name := range desk.Sections {
			st, err := d.Status(name)
			if err != nil {
				return err
			}
			msg := ""
			if st.Err != nil {
				msg = st.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, st.Phase, st.Items, msg)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return loadErr
	}

	section := args[0]
	if err := d.LoadSection(cmd.Context(), section); err != nil {
		if errors.Is(err, desk.ErrUnknownSection) {
			return fmt.Errorf("unknown section %q (valid: listeners, scheduled, registry, rest)", section)
		}
		return err
	}
	switch section {
	case desk.SectionListeners:
		return printItems(out, d.Listeners)
	case desk.SectionScheduled:
		return printItems(out, d.Scheduled)
	case desk.SectionRest:
		return printItems(out, d.Rest)
	default:
		return printItems(out, d.Registry)
	}
}

func printItems[T collection.Entity, F any](out io.Writer, s *adapter.Session[T, F]) error {
	snap := s.Store().SnapshotFor(lsFilter)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWATCHING")
	for _, item := range snap.Visible {
		watching := ""
		if snap.Watches[item.EntityID()] {
			watching = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.EntityID(), item.EntityName(), watching)
	}
	return w.Flush()
}
