package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/zatekoja/hospitalrecords/internal/app"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

func doctorFlags(r *Runner, name string, fields *services.DoctorFields) *flag.FlagSet {
	fs := r.newFlags(name)
	fs.StringVar(&fields.Name, "name", "", "doctor name")
	fs.StringVar(&fields.Specialty, "specialty", "", "specialty")
	fs.StringVar(&fields.Schedule, "schedule", "", "working hours, free text")
	return fs
}

func doctorAdd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	var fields services.DoctorFields
	if err := parseFlags(doctorFlags(r, "doctor add", &fields), args); err != nil {
		return err
	}

	doctor, err := a.Doctors.Register(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "doctor %d added\n", doctor.ID)
	return nil
}

func doctorList(ctx context.Context, r *Runner, a *app.App, args []string) error {
	if err := parseFlags(r.newFlags("doctor list"), args); err != nil {
		return err
	}
	doctors, err := a.Doctors.List(ctx)
	if err != nil {
		return err
	}
	r.printDoctors(doctors)
	return nil
}

func doctorShow(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("doctor show")
	id := fs.Int64("id", 0, "doctor id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	doctor, err := a.Doctors.Get(ctx, *id)
	if err != nil {
		return err
	}
	r.printDoctors([]*entities.Doctor{doctor})
	return nil
}

func doctorEdit(ctx context.Context, r *Runner, a *app.App, args []string) error {
	var fields services.DoctorFields
	fs := doctorFlags(r, "doctor edit", &fields)
	id := fs.Int64("id", 0, "doctor id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	current, err := a.Doctors.Get(ctx, *id)
	if err != nil {
		return err
	}
	set := visited(fs)
	if !set["name"] {
		fields.Name = current.Name
	}
	if !set["specialty"] {
		fields.Specialty = current.Specialty
	}
	if !set["schedule"] {
		fields.Schedule = current.Schedule
	}

	if _, err := a.Doctors.Update(ctx, *id, fields); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "doctor %d updated\n", *id)
	return nil
}

// doctorDelete does not look at the doctor's appointments
func doctorDelete(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("doctor delete")
	id := fs.Int64("id", 0, "doctor id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if !*yes && !r.confirm(fmt.Sprintf("Delete doctor %d?", *id)) {
		fmt.Fprintln(r.Stdout, "cancelled")
		return nil
	}
	if err := a.Doctors.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "doctor %d deleted\n", *id)
	return nil
}

func (r *Runner) printDoctors(doctors []*entities.Doctor) {
	tw := r.table("ID", "NAME", "SPECIALTY", "SCHEDULE")
	for _, d := range doctors {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialty, d.Schedule)
	}
	tw.Flush()
}
