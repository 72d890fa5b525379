package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

func (a *App) Rewards(ctx context.Context) error {
	rewards, err := a.rewards.List(ctx)
	if err != nil {
		return err
	}
	if len(rewards) == 0 {
		fmt.Fprintln(a.out, "No rewards available.")
		return nil
	}

	points := 0
	if u := a.session.Snapshot().User; u != nil {
		points = u.ReferralPoints
	}
	fmt.Fprintf(a.out, "You have %d point(s).\n", points)

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPOINTS")
	for _, r := range rewards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", r.ID, cell(r.Name), r.RewardType, r.PointsRequired)
	}
	return tw.Flush()
}

// Redeem exchanges points for a reward, then refreshes the profile so the
// new balance shows up.
func (a *App) Redeem(ctx context.Context, args []string) error {
	id, err := idArg(args, "redeem <reward-id>")
	if err != nil {
		return err
	}

	rewards, err := a.rewards.List(ctx)
	if err != nil {
		return err
	}
	var reward *models.Reward
	for i := range rewards {
		if rewards[i].ID == id {
			reward = &rewards[i]
			break
		}
	}
	if reward == nil {
		return fmt.Errorf("no reward %d", id)
	}

	points := 0
	if u := a.session.Snapshot().User; u != nil {
		points = u.ReferralPoints
	}

	res, err := a.rewards.Redeem(ctx, *reward, points)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%d point(s) left)\n", res.Message, res.RemainingPoints)

	if err := a.session.RefreshProfile(ctx); err != nil {
		a.logger.Warn(ctx, "profile refresh after redeem failed", "error", err)
	}
	return nil
}

func (a *App) Referrals(ctx context.Context) error {
	st, err := a.rewards.ReferralStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Referral code: %s\n", st.ReferralCode)
	fmt.Fprintf(a.out, "Referrals: %d, points: %d\n", st.TotalReferrals, st.ReferralPoints)
	for _, u := range st.Referrals {
		fmt.Fprintf(a.out, "  - %s\n", u.DisplayName())
	}
	return nil
}
