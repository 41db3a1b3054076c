package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/hydrate"
	"github.com/verdantlabs/verdant/pkg/logging"
	"github.com/verdantlabs/verdant/pkg/stream"
)

var watchServerURL string

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a server's content changes from the terminal",
	Long: `Watch connects to a running server, keeps a local content
snapshot in sync, and prints every change as it arrives. Useful for
checking that edits propagate without opening the storefront.`,
	Example: `  verdant watch
  verdant watch --server http://localhost:8080`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchServerURL, "server", "http://localhost:8080", "Base URL of the content server")
}

// printNotifier renders hydrator notifications to stdout.
type printNotifier struct{}

func (printNotifier) ContentUpdated(kind content.Kind, message string) {
	fmt.Printf("✦ %s (%s)\n", message, kind)
}

func (printNotifier) LoadFailed(err error) {
	fmt.Printf("✖ Не вдалося завантажити вміст: %v\n", err)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.Default()

	client := hydrate.NewClient(watchServerURL, nil)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	hydrator := hydrate.NewHydrator(client, hydrate.NewState(),
		hydrate.WithNotifier(printNotifier{}),
		hydrate.WithHydratorLogger(logger),
	)

	consumer := stream.New(watchServerURL+"/api/events", hydrator.HandleChange,
		stream.WithLogger(logger),
		stream.WithStatusListener(func(s stream.Status) {
			fmt.Printf("stream: %s\n", s)
		}),
	)

	fmt.Printf("Watching %s, press Ctrl+C to stop\n", watchServerURL)

	go hydrator.Run(ctx)
	return consumer.Run(ctx)
}
