// Package cli implements the chatd command line interface.
package cli

import "github.com/spf13/cobra"

// rootCmd is the base command. Running chatd with no subcommand serves.
var rootCmd = &cobra.Command{
	Use:   "chatd",
	Short: "Minimal chat relay over raw HTTP/1.x and server-sent events",
	Long: `chatd is a single-process chat relay. It parses HTTP/1.x requests
straight off the socket and fans posted messages out to every connected
event-stream subscriber.

Serve the chat page at / and the stream at /chat:

  chatd serve --addr 127.0.0.1:8080

Post a message from anywhere:

  curl localhost:8080/chat -d "hello"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
