// Package apps wires the nimble server core together with its transport,
// admin, and spectator surfaces into runnable applications, the same
// division of concerns the reference RISP applications use to separate
// argument parsing in cmd/ from the actual run loop.
package apps

import "context"

// App is anything cmd/nimbled can run once flags have been parsed into a
// concrete application.
type App interface {
	Run(ctx context.Context, args []string) error
}
