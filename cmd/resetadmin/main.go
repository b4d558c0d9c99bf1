// Command resetadmin shows the admin account, creating it with default
// credentials when it does not exist, and resets its password on request.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bienestar-institucional/backend/internal/admin"
	"github.com/bienestar-institucional/backend/internal/bootstrap"
)

func main() {
	os.Exit(run(context.Background(), os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status. Every failure is reported the same way
// on stdout; details go to the log on stderr.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := resetAdmin(ctx, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stdout, "\n✗ Error: %v\n", err)
		fmt.Fprintln(stdout, "\nAsegúrate de que la aplicación esté configurada correctamente.")
		return 1
	}
	return 0
}

func resetAdmin(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	app, err := bootstrap.NewAdminApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	svc := admin.NewService(
		app.Store,
		app.Hasher,
		admin.NewConsolePrompter(stdin, stdout),
		stdout,
		app.Log,
		app.IDs,
	)

	_, err = svc.Run(ctx)
	return err
}
