package cli

import (
	"context"
	"fmt"

	"github.com/zatekoja/hospitalrecords/internal/app"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

func exportCmd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("export")
	out := fs.String("out", "", "CSV file to write, or - for stdout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	switch *out {
	case "":
		return apperrors.NewValidationError("-out is required")
	case "-":
		_, err := a.Export.WriteAppointments(ctx, r.Stdout)
		return err
	}

	n, err := a.Export.ExportAppointments(ctx, *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "exported %d appointments to %s\n", n, *out)
	return nil
}

func backupCmd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("backup")
	out := fs.String("out", "", "backup file to write")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		return apperrors.NewValidationError("-out is required")
	}

	if err := a.Backup.Backup(ctx, *out); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "backup written to %s\n", *out)
	return nil
}

func restoreCmd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("restore")
	from := fs.String("from", "", "backup file to restore")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *from == "" {
		return apperrors.NewValidationError("-from is required")
	}

	if !*yes && !r.confirm(fmt.Sprintf("Replace every record with the contents of %s?", *from)) {
		fmt.Fprintln(r.Stdout, "cancelled")
		return nil
	}
	if err := a.Backup.Restore(ctx, *from); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "database restored from %s\n", *from)
	return nil
}

func loginCmd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("login")
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	credential, err := a.Credentials.Authenticate(ctx, *user, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "welcome, %s\n", credential.Username)
	return nil
}
