package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/zatekoja/hospitalrecords/internal/app"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

func patientFlags(r *Runner, name string, fields *services.PatientFields) *flag.FlagSet {
	fs := r.newFlags(name)
	fs.StringVar(&fields.Name, "name", "", "patient name")
	fs.StringVar(&fields.Age, "age", "", "age in years")
	fs.StringVar(&fields.Address, "address", "", "address")
	fs.StringVar(&fields.Contact, "contact", "", "phone or email")
	return fs
}

func patientAdd(ctx context.Context, r *Runner, a *app.App, args []string) error {
	var fields services.PatientFields
	if err := parseFlags(patientFlags(r, "patient add", &fields), args); err != nil {
		return err
	}

	patient, err := a.Patients.Register(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "patient %d added\n", patient.ID)
	return nil
}

func patientList(ctx context.Context, r *Runner, a *app.App, args []string) error {
	if err := parseFlags(r.newFlags("patient list"), args); err != nil {
		return err
	}
	patients, err := a.Patients.List(ctx)
	if err != nil {
		return err
	}
	r.printPatients(patients)
	return nil
}

func patientSearch(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("patient search")
	term := fs.String("name", "", "part of the name to look for")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	patients, err := a.Patients.Search(ctx, *term)
	if err != nil {
		return err
	}
	r.printPatients(patients)
	return nil
}

func patientShow(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("patient show")
	id := fs.Int64("id", 0, "patient id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	patient, err := a.Patients.Get(ctx, *id)
	if err != nil {
		return err
	}
	r.printPatients([]*entities.Patient{patient})
	return nil
}

// patientEdit starts from the stored values, like a prefilled form, and
// overwrites the ones given on the command line.
func patientEdit(ctx context.Context, r *Runner, a *app.App, args []string) error {
	var fields services.PatientFields
	fs := patientFlags(r, "patient edit", &fields)
	id := fs.Int64("id", 0, "patient id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	current, err := a.Patients.Get(ctx, *id)
	if err != nil {
		return err
	}
	set := visited(fs)
	if !set["name"] {
		fields.Name = current.Name
	}
	// a NULL age stays blank, so the edit needs -age
	if !set["age"] && !current.AgeUnknown {
		fields.Age = strconv.Itoa(current.Age)
	}
	if !set["address"] {
		fields.Address = current.Address
	}
	if !set["contact"] {
		fields.Contact = current.Contact
	}

	if _, err := a.Patients.Update(ctx, *id, fields); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "patient %d updated\n", *id)
	return nil
}

func patientDelete(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.newFlags("patient delete")
	id := fs.Int64("id", 0, "patient id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if !*yes && !r.confirm(fmt.Sprintf("Delete patient %d?", *id)) {
		fmt.Fprintln(r.Stdout, "cancelled")
		return nil
	}
	if err := a.Patients.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "patient %d deleted\n", *id)
	return nil
}

func (r *Runner) printPatients(patients []*entities.Patient) {
	tw := r.table("ID", "NAME", "AGE", "ADDRESS", "CONTACT")
	for _, p := range patients {
		age := strconv.Itoa(p.Age)
		if p.AgeUnknown {
			age = ""
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, age, p.Address, p.Contact)
	}
	tw.Flush()
}
