package cli

import (
	"github.com/spf13/cobra"

	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

func newDoubtsCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doubts",
		Short: "Read, ask and delete doubts",
	}
	cmd.AddCommand(
		newDoubtsListCommand(get),
		newDoubtsAskCommand(get),
		newDoubtsDeleteCommand(get),
	)
	return cmd
}

func printDoubts(a *app, v *views.Doubts) {
	doubts := v.Screen().Data
	if len(doubts) == 0 {
		a.printf("no doubts yet")
		return
	}
	for _, d := range doubts {
		author := "unknown"
		if d.CreatedByUser != nil {
			author = d.CreatedByUser.Name
		}
		a.printf("#%d [%s] %s  by %s on %s", d.ID, d.Topic, d.Title, author, d.CreatedAt.Date())
	}
}

func newDoubtsListCommand(get func() *app) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List doubts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewDoubts(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, topic); err != nil {
				return a.fail(err, "Load doubts")
			}
			printDoubts(a, v)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "only show doubts about this topic")
	return cmd
}

func newDoubtsAskCommand(get func() *app) *cobra.Command {
	var req models.CreateDoubtRequest
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Post a doubt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewDoubts(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, ""); err != nil {
				return a.fail(err, "Load doubts")
			}

			v.Form().Open()
			v.Form().Set(func(p *models.CreateDoubtRequest) { *p = req })
			if err := v.Create(ctx); err != nil {
				return a.failForm(err, v.Form().Message())
			}
			a.okf("posted #%d %s", v.Screen().Data[0].ID, req.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic of the doubt")
	cmd.Flags().StringVar(&req.Title, "title", "", "short question")
	cmd.Flags().StringVar(&req.Description, "description", "", "details")
	return cmd
}

func newDoubtsDeleteCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your doubts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			id, err := parseIDArg(args[0])
			if err != nil {
				return a.fail(err, "Delete doubt")
			}
			ctx, cancel := a.ctx(cmd.Context())
			defer cancel()

			v := views.NewDoubts(a.deps())
			defer v.Unmount()
			if err := v.Mount(ctx, ""); err != nil {
				return a.fail(err, "Load doubts")
			}
			if err := v.Delete(ctx, id); err != nil {
				return a.fail(err, "Delete doubt")
			}
			a.okf("deleted #%d", id)
			return nil
		},
	}
}
