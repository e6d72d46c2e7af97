package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
)

// ListSessions prints one row per stored session.
func ListSessions(ctx context.Context, store ports.StateStore, out io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		printSystemMessage(out, "No sessions.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYSTEM\tNODE\tSTATUS")
	for _, id := range ids {
		state, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Expired between List and Load.
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", id, state.System, state.CurrentNodeID, state.Status)
	}
	return tw.Flush()
}

// ShowSession prints a session snapshot as indented JSON.
func ShowSession(ctx context.Context, store ports.StateStore, id string, out io.Writer) error {
	state, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// RemoveSession deletes a session.
func RemoveSession(ctx context.Context, store ports.StateStore, id string, out io.Writer) error {
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	printSystemMessage(out, "Session '%s' removed.", id)
	return nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, ">>> %s\n", fmt.Sprintf(format, args...))
}
