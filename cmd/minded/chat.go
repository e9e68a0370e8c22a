package main

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/minded/pkg/conversation"
	"github.com/go-go-golems/minded/pkg/events"
	"github.com/go-go-golems/minded/pkg/helpers"
	"github.com/go-go-golems/minded/pkg/respond"
	"github.com/go-go-golems/minded/pkg/ui"
)

// uiTopic is the watermill topic session events are published on for the
// terminal front end.
const uiTopic = "ui"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive nested chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetString("history")
		autosave, _ := cmd.Flags().GetString("autosave")
		autosaveDir, _ := cmd.Flags().GetString("autosave-dir")
		autosaveFormat, _ := cmd.Flags().GetString("autosave-format")
		dumpRawEvents, _ := cmd.Flags().GetBool("dump-raw-events")
		verbose := viper.GetBool("verbose")

		if !isatty.IsTerminal(os.Stdout.Fd()) {
			return errors.New("chat needs a terminal on stdout")
		}

		options := []conversation.ManagerOption{
			conversation.WithResponder(respond.NewEcho()),
			conversation.WithAutosave(autosave, autosaveFormat, autosaveDir),
		}

		if history != "" {
			snapshot, err := conversation.LoadSnapshotFromFile(history)
			if err != nil {
				return errors.Wrapf(err, "failed to load history from %s", history)
			}
			store, current := conversation.NewStoreFromSnapshot(snapshot)
			options = append(options,
				conversation.WithStore(store),
				conversation.WithCurrentThread(current),
			)
			log.Info().
				Str("history", history).
				Int("threads", store.ThreadCount()).
				Int("messages", store.MessageCount()).
				Msg("restored session")
		}

		var routerOptions []events.EventRouterOption
		if verbose {
			routerOptions = append(routerOptions, events.WithVerbose(true))
		}
		router, err := events.NewEventRouter(routerOptions...)
		if err != nil {
			return errors.Wrap(err, "failed to create event router")
		}
		defer func() {
			_ = router.Close()
		}()

		publisherManager := events.NewPublisherManager()
		publisherManager.SubscribePublisher(uiTopic, helpers.CorrelationPublisherDecorator{
			Publisher: router.Publisher,
		})
		options = append(options, conversation.WithPublisher(publisherManager))

		manager := conversation.NewManager(options...)

		p := tea.NewProgram(ui.NewModel(manager), tea.WithAltScreen())

		router.AddHandler("ui-forward", uiTopic, ui.ChatForwardFunc(p))
		if dumpRawEvents {
			router.AddHandler("dump-raw-events", uiTopic, router.DumpRawEvents)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			defer cancel()
			err := router.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			defer cancel()
			// wait for the router before the UI starts publishing
			<-router.Running()
			_, err := p.Run()
			return err
		})

		return eg.Wait()
	},
}

func init() {
	chatCmd.Flags().String("history", "", "Snapshot file to restore the session from")
	chatCmd.Flags().String("autosave", "no", "Autosave the session after each exchange (yes, no)")
	chatCmd.Flags().String("autosave-dir", "", "Autosave directory (default ~/.minded/history)")
	chatCmd.Flags().String("autosave-format", "", "Autosave path template")
	chatCmd.Flags().Bool("dump-raw-events", false, "Print raw session events (debugging)")
}
