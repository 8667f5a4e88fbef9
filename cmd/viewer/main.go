package main

import (
	"fmt"
	"os"

	_ "github.com/dhima/guild-log-viewer/docs" // Register swagger docs
)

// @title Guild Log Viewer API
// @version 1.0
// @description Read-only viewer over the event_logs and message_logs tables written by the guild audit bot.
// @description
// @description ## Features
// @description - **Log list**: one shared list, rendered server-side, refreshed on a schedule
// @description - **Filters**: one control per event type plus all events and all messages
// @description - **Backends**: hosted REST table store, MySQL, Postgres or SQLite

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
