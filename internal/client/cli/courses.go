package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/services"
)

func printPacks(w io.Writer, packs []models.CoursePack) error {
	if len(packs) == 0 {
		fmt.Fprintln(w, "No courses.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDOMAIN\tPRICE\tCHAPTERS\tOWNED")
	for _, p := range packs {
		owned := ""
		if p.IsPurchased {
			owned = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, cell(p.Title), cell(p.Domain), p.Price, len(p.Chapters), owned)
	}
	return tw.Flush()
}

func (a *App) Courses(ctx context.Context) error {
	packs, err := a.courses.List(ctx)
	if err != nil {
		return err
	}
	return printPacks(a.out, packs)
}

func (a *App) MyCourses(ctx context.Context) error {
	packs, err := a.courses.MyCourses(ctx)
	if err != nil {
		return err
	}
	return printPacks(a.out, packs)
}

func (a *App) Outline(ctx context.Context, args []string) error {
	id, err := idArg(args, "outline <pack-id>")
	if err != nil {
		return err
	}

	o, err := a.courses.Outline(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%d/%d completed)\n", o.Pack.Title, o.Completed(), len(o.Chapters))
	tw := newTable(a.out)
	fmt.Fprintln(tw, "#\tCHAPTER\tTITLE\tSTATUS")
	for _, c := range o.Chapters {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", c.Chapter.Order, c.Chapter.ID, cell(c.Chapter.Title), c.Status)
	}
	return tw.Flush()
}

// Buy purchases a pack. The optional second argument picks the payment
// method: "card" or "mobile" (default).
func (a *App) Buy(ctx context.Context, args []string) error {
	const usage = "buy <pack-id> [mobile|card]"
	id, err := idArg(args, usage)
	if err != nil {
		return err
	}

	method := services.PaymentMobileMoney
	if len(args) > 1 {
		switch args[1] {
		case "mobile":
		case "card":
			method = services.PaymentCard
		default:
			return usageError(usage)
		}
	}

	res, err := a.courses.Purchase(ctx, id, method)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%d chapter(s) unlocked)\n", res.Message, res.ChaptersUnlocked)
	return nil
}
