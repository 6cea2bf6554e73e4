package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Работа с профилями пользователей",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать все профили",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		stores, err := openStores(ctx)
		if err != nil {
			return err
		}
		defer stores.Close()

		list, err := stores.Profiles.List(ctx)
		if err != nil {
			return err
		}
		return printProfiles(cmd.OutOrStdout(), list)
	},
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	rootCmd.AddCommand(profilesCmd)
}

func printProfiles(out io.Writer, list []models.UserProfile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tИМЯ\tДОСТУПНОСТЬ\tРЕЙТИНГ\tПРЕДЛАГАЕТ\tИЩЕТ\tПУБЛИЧНЫЙ")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f (%d)\t%s\t%s\t%t\n",
			p.ID, p.DisplayName, p.Availability, p.Rating, p.ReviewCount,
			strings.Join(p.SkillsOffered, ", "), strings.Join(p.SkillsWanted, ", "), p.IsPublic)
	}
	return w.Flush()
}
