package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) getStatus() string {
	s := ""
	if st := a.session.Snapshot(); st.Authenticated() {
		s = st.User.Username + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Register prompts for the account fields and creates the account. It does
// not sign in.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Username", &reg.Username},
		{"Email", &reg.Email},
		{"First name (optional)", &reg.FirstName},
		{"Last name (optional)", &reg.LastName},
		{"Phone (optional)", &reg.Phone},
		{"City (optional)", &reg.City},
		{fmt.Sprintf("Academic level (%s, %s, %s; optional)", models.LevelBEPC, models.LevelBAC, models.LevelLicence), &reg.AcademicLevel},
		{"Referral code (optional)", &reg.ReferralCodeUsed},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)
	reg.Password = string(password)

	user, err := a.session.Register(ctx, reg)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %s created. You can now log in.\n", user.Username)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.Login(ctx, username, string(password)); err != nil {
		a.logger.Debug(ctx, "login unsuccessful", "username", username, "error", err)
		return err
	}

	st := a.session.Snapshot()
	fmt.Fprintf(a.out, "Welcome, %s!\n", st.User.DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	st := a.session.Snapshot()
	if !st.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", st.User.Username, st.User.DisplayName())
	return nil
}

// Profile refetches the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	if err := a.session.RefreshProfile(ctx); err != nil {
		return err
	}
	u := a.session.Snapshot().User
	if u == nil {
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Username\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "City\t%s\n", u.City)
	fmt.Fprintf(tw, "Academic level\t%s\n", u.AcademicLevel)
	fmt.Fprintf(tw, "Referral code\t%s\n", u.ReferralCode)
	fmt.Fprintf(tw, "Referral points\t%d\n", u.ReferralPoints)
	fmt.Fprintf(tw, "Matching done\t%t\n", u.HasCompletedMatching)
	return tw.Flush()
}

// Status prints connectivity, backend and session state.
func (a *App) Status(context.Context) error {
	mode := a.Mode()
	if mode == "" {
		mode = "unknown"
	}
	st := a.session.Snapshot()

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Environment\t%s\n", a.config.Env)
	fmt.Fprintf(tw, "Backend\t%s\n", a.backend.BaseURL())
	fmt.Fprintf(tw, "Connectivity\t%s\n", mode)
	fmt.Fprintf(tw, "Session\t%s\n", st.Status)
	return tw.Flush()
}
