package cli

import (
	"context"
	"fmt"
)

func (a *App) Jobs(ctx context.Context) error {
	jobs, err := a.opportunities.Jobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "No job offers.")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tSALARY\tEXPIRES")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", cell(j.Title), cell(j.Company), cell(j.Location), cell(j.SalaryRange), j.ExpiryDate)
	}
	return tw.Flush()
}

func (a *App) Competitions(ctx context.Context) error {
	cs, err := a.opportunities.Competitions(ctx)
	if err != nil {
		return err
	}
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "No competitions.")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "TITLE\tORGANIZER\tDEADLINE\tEXAM")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cell(c.Title), cell(c.Organizer), c.RegistrationDeadline, c.ExamDate)
	}
	return tw.Flush()
}
