package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/learnconnect/learnconnect.go/internal/config"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/search"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

// Main runs the learnconnect command with args. Errors already shown to
// the user are returned without printing them again.
func Main(ctx context.Context, args []string, out, errOut io.Writer) error {
	root, closeApp := newRootCommand(out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	err = errors.Join(err, closeApp())
	if err != nil && !errors.As(err, new(*reportedError)) {
		color.New(color.FgRed, color.Bold).Fprintf(errOut, "error: %s\n", err)
	}
	return err
}

type rootFlags struct {
	configPath string
	envPath    string
	baseURL    string
}

func newRootCommand(out, errOut io.Writer) (*cobra.Command, func() error) {
	flags := &rootFlags{}
	var a *app

	root := &cobra.Command{
		Use:           "learnconnect",
		Short:         "Command line client for the LearnConnect learning platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath, flags.envPath)
			if err != nil {
				return err
			}
			if flags.baseURL != "" {
				cfg.BaseURL = flags.baseURL
			}
			a, err = newApp(cfg, out, errOut)
			return err
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path of a TOML config file")
	root.PersistentFlags().StringVar(&flags.envPath, "env", ".env", "path of a .env file")
	root.PersistentFlags().StringVar(&flags.baseURL, "url", "", "API base URL, e.g. http://localhost:8000/api")

	get := func() *app { return a }
	root.AddCommand(
		newHealthCommand(get),
		newLoginCommand(get),
		newSignupCommand(get),
		newLogoutCommand(get),
		newWhoamiCommand(get),
		newDashboardCommand(get),
		newSearchCommand(get),
		newGroupsCommand(get),
		newDoubtsCommand(get),
	)

	closeApp := func() error {
		if a == nil {
			return nil
		}
		return a.Close()
	}
	return root, closeApp
}

func newHealthCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			res, err := a.client.Health(ctx)
			if err != nil {
				return a.fail(err, "Health check")
			}
			a.okf("status: %s", res["status"])
			return nil
		},
	}
}

func newLoginCommand(get func() *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewLogin(a.deps())
			if err := v.Submit(ctx, email, password); err != nil {
				return a.failForm(err, v.Message())
			}
			a.okf("signed in as %s", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newSignupCommand(get func() *app) *cobra.Command {
	var req models.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewLogin(a.deps())
			if err := v.Signup(ctx, req); err != nil {
				return a.failForm(err, v.SignupMessage())
			}
			a.okf("welcome, %s", req.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := views.NewHeader(a.deps()).Logout(cmd.Context()); err != nil {
				return a.fail(err, "Logout")
			}
			a.okf("signed out")
			return nil
		},
	}
}

func newWhoamiCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			u, ok := views.NewHeader(a.deps()).User(cmd.Context())
			if !ok {
				a.printf("not signed in")
				return nil
			}
			a.printf("%s <%s>", u.Name, u.Email)
			return nil
		},
	}
}

func newDashboardCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show recent searches, joined groups and recommended topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewDashboard(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx); err != nil {
				return a.fail(err, "Load dashboard")
			}

			d := v.Screen().Data
			searches, groups, topics := v.Counts()
			a.printf("Welcome back, %s", v.User().Name)
			a.printf("recent searches: %d  joined groups: %d  recommended topics: %d", searches, groups, topics)
			for _, s := range d.RecentSearches {
				a.printf("  search  %s  (%s)", s.Topic, s.SearchedAt.Date())
			}
			for _, g := range d.JoinedGroups {
				a.printf("  group   #%d %s (%d members)", g.ID, g.Title, len(g.Members))
			}
			for _, t := range d.RecommendedTopics {
				a.printf("  topic   %s", t.Name)
			}
			return nil
		},
	}
}

func newSearchCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search videos and articles for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewSearch(a.deps())
			if err := v.Mount(ctx); err != nil {
				return a.fail(err, "Search")
			}
			if err := v.Submit(ctx, strings.Join(args, " ")); err != nil {
				return a.fail(err, "Search")
			}
			printSearch(a, v.View())
			return nil
		},
	}
}

func printSearch(a *app, view search.View) {
	if view.Empty() {
		a.printf("no results for %q", view.Query)
		return
	}
	if view.HasVideos() {
		a.printf("Videos")
		for _, vid := range view.Model.Videos {
			a.printf("  %s  %s", vid.Title, vid.URL)
		}
	}
	if view.HasArticles() {
		a.printf("Articles")
		for _, art := range view.Model.Articles {
			a.printf("  %s  %s (%s)", art.Title, art.URL, art.Source)
		}
	}
}

func parseIDArg(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errInvalidID(arg)
	}
	return id, nil
}
