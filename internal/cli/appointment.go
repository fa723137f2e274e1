package cli

import (
	"context"
	"fmt"

	"github.com/zatekoja/hospitalrecords/internal/app"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

func appointmentAdd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	var fields services.AppointmentFields
	fs := r.newFlags("appointment add")
	fs.StringVar(&fields.PatientID, "patient", "", "patient id")
	fs.StringVar(&fields.DoctorID, "doctor", "", "doctor id")
	fs.StringVar(&fields.Date, "date", "", "date as DD/MM/YYYY")
	fs.StringVar(&fields.Time, "time", "", "time as HH:MM")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	appointment, err := a.Appointments.Schedule(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "appointment %d scheduled\n", appointment.ID)
	return nil
}

func appointmentList(ctx context.Context, r *Runner, a *app.App, args []string) error {
	if err := parseFlags(r.newFlags("appointment list"), args); err != nil {
		return err
	}
	appointments, err := a.Appointments.List(ctx)
	if err != nil {
		return err
	}
	r.printAppointments(appointments)
	return nil
}

func appointmentShow(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("appointment show")
	id := fs.Int64("id", 0, "appointment id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	appointment, err := a.Appointments.Get(ctx, *id)
	if err != nil {
		return err
	}
	r.printAppointments([]*entities.AppointmentDetail{appointment})
	return nil
}

func appointmentDelete(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("appointment delete")
	id := fs.Int64("id", 0, "appointment id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if !*yes && !r.confirm(fmt.Sprintf("Delete appointment %d?", *id)) {
		fmt.Fprintln(r.Stdout, "cancelled")
		return nil
	}
	if err := a.Appointments.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "appointment %d deleted\n", *id)
	return nil
}

// printAppointments shows the stored ids next to the names so rows with a
// missing patient or doctor can still be traced.
func (r *Runner) printAppointments(appointments []*entities.AppointmentDetail) {
	tw := r.table("ID", "PATIENT", "DOCTOR", "DATE", "TIME")
	for _, a := range appointments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			a.ID,
			label(a.PatientID, a.PatientName),
			label(a.DoctorID, a.DoctorName),
			a.Date.String(),
			a.Time.String(),
		)
	}
	tw.Flush()
}

func label(id int64, name string) string {
	if name == "" {
		return fmt.Sprintf("%d: (missing)", id)
	}
	return fmt.Sprintf("%d: %s", id, name)
}
