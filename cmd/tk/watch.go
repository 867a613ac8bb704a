package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tacks/internal/client"
	"github.com/alfredjeanlab/tacks/internal/events"
	"github.com/alfredjeanlab/tacks/internal/model"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch a board and print cards as they change",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		brd, err := requireBoard()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		column, _ := cmd.Flags().GetString("column")

		filter := model.CardFilter{ColumnID: column}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		// Initial query establishes the baseline and prints everything.
		if err := queryAndPrint(ctx, brd, filter, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Transport preference: NATS, then the server's SSE stream,
		// then plain polling.
		natsURL := os.Getenv("TACKS_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, brd, filter, seen)
		}
		if err := watchSSE(ctx, brd, filter, seen); err != nil {
			fmt.Fprintf(os.Stderr, "event stream unavailable (%v); falling back to polling\n", err)
			return watchPoll(ctx, interval, brd, filter, seen)
		}
		return nil
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL, boardID string, filter model.CardFilter, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("tacks.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := newStoppedTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, boardID, filter, seen); err != nil {
				return err
			}
		}
	}
}

// watchSSE follows the server's event stream and re-queries on changes
// with the same debounce as the NATS path.
func watchSSE(ctx context.Context, boardID string, filter model.CardFilter, seen map[string]time.Time) error {
	eventCh := make(chan client.Event, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- tkClient.WatchEvents(ctx, &client.WatchRequest{Topics: []string{"tacks.>"}}, func(ev client.Event) {
			select {
			case eventCh <- ev:
			default:
			}
		})
	}()

	debounce := newStoppedTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-eventCh:
			debounce.Reset(200 * time.Millisecond)
		case <-debounce.C:
			if err := queryAndPrint(ctx, boardID, filter, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, boardID string, filter model.CardFilter, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, boardID, filter, seen); err != nil {
			return err
		}
	}
}

// newStoppedTimer returns a timer that will not fire until Reset.
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(0)
	t.Stop()
	// Drain the channel in case it fired between NewTimer and Stop.
	select {
	case <-t.C:
	default:
	}
	return t
}

// queryAndPrint lists cards, diffs against the seen map, and prints any changes.
func queryAndPrint(ctx context.Context, boardID string, filter model.CardFilter, seen map[string]time.Time) error {
	changed, total, err := queryAndDiff(ctx, boardID, filter, seen)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printCardListTable(changed, total)
		}
	}
	return nil
}

// queryAndDiff lists cards and returns those that are new or changed since
// last seen. It updates the seen map in place.
func queryAndDiff(ctx context.Context, boardID string, filter model.CardFilter, seen map[string]time.Time) ([]*model.Card, int, error) {
	resp, err := tkClient.ListCards(ctx, boardID, filter)
	if err != nil {
		return nil, 0, err
	}
	return diffCards(resp.Cards, seen), resp.Total, nil
}

// diffCards compares cards against the seen map and returns those that are
// new or have a different updated_at timestamp. It updates seen in place.
func diffCards(cards []*model.Card, seen map[string]time.Time) []*model.Card {
	var changed []*model.Card
	for _, c := range cards {
		prev, ok := seen[c.ID]
		if !ok || !c.UpdatedAt.Equal(prev) {
			changed = append(changed, c)
		}
		seen[c.ID] = c.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	watchCmd.Flags().StringP("column", "c", "", "watch a single column")
}
