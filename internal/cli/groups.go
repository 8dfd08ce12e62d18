package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

func errInvalidID(arg string) error {
	return fmt.Errorf("invalid id %q", arg)
}

func newGroupsCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Browse, create and join study groups",
	}
	cmd.AddCommand(
		newGroupsListCommand(get),
		newGroupsCreateCommand(get),
		newGroupsJoinCommand(get),
		newGroupsShowCommand(get),
		newGroupsLeaveCommand(get),
		newGroupsShareCommand(get),
	)
	return cmd
}

func printGroups(a *app, v *views.Groups) {
	for _, g := range v.Screen().Data {
		mark := " "
		if v.IsMember(g) {
			mark = "*"
		}
		a.printf("%s #%d %s (%d members)", mark, g.ID, g.Title, len(g.Members))
	}
}

func newGroupsListCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List study groups; * marks the ones you joined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroups(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx); err != nil {
				return a.fail(err, "Load groups")
			}
			printGroups(a, v)
			return nil
		},
	}
}

func newGroupsCreateCommand(get func() *app) *cobra.Command {
	var req models.CreateGroupRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a study group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroups(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx); err != nil {
				return a.fail(err, "Load groups")
			}

			v.Form().Open()
			v.Form().Set(func(p *models.CreateGroupRequest) { *p = req })
			if err := v.Create(ctx); err != nil {
				return a.failForm(err, v.Form().Message())
			}
			groups := v.Screen().Data
			created := groups[len(groups)-1]
			a.okf("created group #%d %s", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "group title")
	cmd.Flags().StringVar(&req.Description, "description", "", "group description")
	cmd.Flags().IntVar(&req.TopicID, "topic", 0, "topic id")
	return cmd
}

func newGroupsJoinCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a study group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			id, err := parseIDArg(args[0])
			if err != nil {
				return a.fail(err, "Join group")
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroups(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx); err != nil {
				return a.fail(err, "Load groups")
			}
			if err := v.Join(ctx, id); err != nil {
				return a.fail(err, "Join group")
			}
			a.okf("joined group #%d", id)
			printGroups(a, v)
			return nil
		},
	}
}

func newGroupsShowCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a group with its members and resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroupDetail(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, args[0]); err != nil {
				return a.fail(err, "Load group")
			}

			g := v.Screen().Data
			a.printf("#%d %s", g.ID, g.Title)
			if g.Description != "" {
				a.printf("%s", g.Description)
			}
			a.printf("Members")
			for _, m := range g.Members {
				a.printf("  %s", m.Name)
			}
			a.printf("Resources")
			for _, r := range g.Resources {
				a.printf("  [%s] %s  %s", r.ResourceType, r.Title, r.URL)
			}
			return nil
		},
	}
}

func newGroupsLeaveCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a study group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroupDetail(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, args[0]); err != nil {
				return a.fail(err, "Load group")
			}
			if err := v.Leave(ctx); err != nil {
				return a.fail(err, "Leave group")
			}
			a.okf("left group #%s", args[0])
			return nil
		},
	}
}

func newGroupsShareCommand(get func() *app) *cobra.Command {
	var req models.ShareResourceRequest
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Share a resource with a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewGroupDetail(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, args[0]); err != nil {
				return a.fail(err, "Load group")
			}

			v.ShareForm().Open()
			v.ShareForm().Set(func(p *models.ShareResourceRequest) { *p = req })
			if err := v.ShareResource(ctx); err != nil {
				return a.failForm(err, v.ShareForm().Message())
			}
			a.okf("shared %s (%d resources)", req.Title, len(v.Screen().Data.Resources))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "resource title")
	cmd.Flags().StringVar(&req.URL, "url", "", "resource URL")
	cmd.Flags().StringVar((*string)(&req.ResourceType), "type", string(models.ResourceArticle), "article, youtube, course or other")
	return cmd
}
