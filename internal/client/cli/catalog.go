package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

func (a *App) FAQ(ctx context.Context) error {
	faqs, err := a.catalog.FAQs(ctx)
	if err != nil {
		return err
	}
	if len(faqs) == 0 {
		fmt.Fprintln(a.out, "No questions yet.")
		return nil
	}

	category := ""
	for _, f := range faqs {
		if f.CategoryName != category {
			category = f.CategoryName
			fmt.Fprintf(a.out, "\n== %s ==\n", category)
		}
		fmt.Fprintf(a.out, "Q: %s\nA: %s\n", f.Question, f.Answer)
	}
	return nil
}

// Ask sends a free-form question to the FAQ assistant.
func (a *App) Ask(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("ask <question>")
	}
	ans, err := a.catalog.AskFAQ(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ans.Answer)
	return nil
}

func (a *App) Centers(ctx context.Context) error {
	centers, err := a.catalog.Centers(ctx)
	if err != nil {
		return err
	}
	if len(centers) == 0 {
		fmt.Fprintln(a.out, "No centers.")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "NAME\tCITY\tADDRESS\tPHONE")
	for _, c := range centers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cell(c.Name), c.City, cell(c.Address), c.Phone)
	}
	return tw.Flush()
}

// Match walks the orientation form, submits it and lets the user pick one of
// the recommended profiles.
func (a *App) Match(ctx context.Context) error {
	questions, err := a.catalog.MatchingQuestions(ctx)
	if err != nil {
		return err
	}
	slices.SortStableFunc(questions, func(x, y models.MatchingQuestion) int { return x.Order - y.Order })

	responses := make([]models.MatchingResponse, 0, len(questions))
	for i, q := range questions {
		if len(q.Answers) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "\n%d/%d %s\n", i+1, len(questions), q.Text)
		for j, ans := range q.Answers {
			fmt.Fprintf(a.out, "  %d) %s\n", j+1, ans.Text)
		}

		pick, err := a.pickNumber(len(q.Answers))
		if err != nil {
			return err
		}
		responses = append(responses, models.MatchingResponse{QuestionID: q.ID, AnswerID: q.Answers[pick].ID})
	}

	res, err := a.catalog.SubmitMatching(ctx, responses)
	if err != nil {
		return err
	}
	if res.Message != "" {
		fmt.Fprintln(a.out, res.Message)
	}
	if len(res.RecommendedProfiles) == 0 {
		return nil
	}

	fmt.Fprintln(a.out, "Recommended profiles:")
	for i, p := range res.RecommendedProfiles {
		fmt.Fprintf(a.out, "  %d) %s: %s\n", i+1, p.Name, cell(p.Description))
	}
	pick, err := a.pickNumber(len(res.RecommendedProfiles))
	if err != nil {
		return err
	}

	sel, err := a.catalog.SelectProfile(ctx, res.RecommendedProfiles[pick].ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, sel.Message)

	if err := a.session.RefreshProfile(ctx); err != nil {
		a.logger.Warn(ctx, "profile refresh after matching failed", "error", err)
	}
	return nil
}

// pickNumber reads a 1-based choice until it is valid and returns it 0-based.
func (a *App) pickNumber(n int) (int, error) {
	for {
		input, err := getSimpleText(a.reader, fmt.Sprintf("Choose 1-%d", n), a.out)
		if err != nil {
			return 0, err
		}
		if v, err := strconv.Atoi(input); err == nil && v >= 1 && v <= n {
			return v - 1, nil
		}
		fmt.Fprintln(a.out, "Unknown input.")
	}
}

// Path shows the adaptive path for the selected profile. "path start"
// validates and starts it.
func (a *App) Path(ctx context.Context, args []string) error {
	p, err := a.catalog.AdaptivePath(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s, level %s, %d month(s)\n", p.Profile.Name, p.AcademicLevel, p.DurationMonths)
	for i, step := range p.Steps {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, describeStep(step))
	}

	if len(args) > 0 && args[0] == "start" {
		msg, err := a.catalog.ValidatePath(ctx, p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// describeStep renders a free-form path step, preferring its title.
func describeStep(step any) string {
	if m, ok := step.(map[string]any); ok {
		for _, k := range []string{"title", "name", "description"} {
			if s, ok := m[k].(string); ok && s != "" {
				return cell(s)
			}
		}
	}
	if s, ok := step.(string); ok {
		return cell(s)
	}
	return cell(fmt.Sprint(step))
}
