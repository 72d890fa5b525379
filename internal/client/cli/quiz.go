package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/elite/internal/client/services"
)

// Quiz runs a quiz interactively: answer by choice number, move with n/p,
// submit with s, abandon with q.
func (a *App) Quiz(ctx context.Context, args []string) error {
	chapterID, err := idArg(args, "quiz <chapter-id>")
	if err != nil {
		return err
	}

	q, err := a.quizzes.Quiz(ctx, chapterID)
	if err != nil {
		return err
	}
	attempt, err := services.NewQuizAttempt(q)
	if err != nil {
		return err
	}

	for {
		a.printQuestion(attempt)

		input, err := getSimpleText(a.reader, "Choice number, (n)ext, (p)revious, (s)ubmit or (q)uit", a.out)
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "n", "next":
			if !attempt.Next() {
				fmt.Fprintln(a.out, "This is the last question.")
			}
		case "p", "prev", "previous":
			if !attempt.Previous() {
				fmt.Fprintln(a.out, "This is the first question.")
			}
		case "q", "quit":
			fmt.Fprintln(a.out, "Quiz abandoned.")
			return nil
		case "s", "submit":
			if n := attempt.Unanswered(); n > 0 &&
				!Confirm(a.reader, fmt.Sprintf("%d question(s) unanswered. Submit anyway?", n), a.out) {
				continue
			}
			return a.submitQuiz(ctx, chapterID, attempt)
		default:
			a.selectChoice(attempt, input)
		}
	}
}

func (a *App) printQuestion(attempt *services.QuizAttempt) {
	q := attempt.Current()
	selected, _ := attempt.Selected()

	fmt.Fprintf(a.out, "\nQuestion %d of %d (%.0f%%), %d point(s)\n", attempt.Index()+1, attempt.Len(), attempt.Progress(), q.Points)
	fmt.Fprintln(a.out, q.Text)
	for i, c := range q.Choices {
		mark := " "
		if c.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(a.out, " %s %d) %s\n", mark, i+1, c.Text)
	}
	fmt.Fprintf(a.out, "Answered: %d / %d\n", attempt.Answered(), attempt.Len())
}

func (a *App) selectChoice(attempt *services.QuizAttempt, input string) {
	choices := attempt.Current().Choices
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(choices) {
		fmt.Fprintln(a.out, "Unknown input.")
		return
	}
	if err := attempt.Select(choices[n-1].ID); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	attempt.Next()
}

func (a *App) submitQuiz(ctx context.Context, chapterID int64, attempt *services.QuizAttempt) error {
	res, err := a.quizzes.Submit(ctx, chapterID, attempt.Answers())
	if errors.Is(err, services.ErrNoAnswers) {
		fmt.Fprintln(a.out, "Nothing to submit.")
		return nil
	}
	if err != nil {
		return err
	}

	band := services.BandFor(res.Score)
	fmt.Fprintf(a.out, "Score: %.1f/20 (%s)\n", res.Score, band)

	switch {
	case res.Passed:
		fmt.Fprintln(a.out, "Congratulations, you passed the quiz.")
		if res.NextChapterID != nil {
			fmt.Fprintf(a.out, "Next chapter: %d\n", *res.NextChapterID)
		}
	case res.CanUseReferralOption:
		fmt.Fprintf(a.out, "Not enough to pass, but you can unlock the next chapter with referrals (%d/%d).\n",
			res.CurrentReferrals, res.ReferralsNeeded)
		if Confirm(a.reader, "Use the referral bypass now?", a.out) {
			b, err := a.quizzes.ReferralBypass(ctx, chapterID)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, b.Message)
		}
	default:
		if res.Message != "" {
			fmt.Fprintln(a.out, res.Message)
		}
		fmt.Fprintln(a.out, "Review the chapter and try again.")
	}
	return nil
}
