package commands

import (
	"os"

	"sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/serviceutil"
	kgssvc "sdvext-backend/services/kgs"
	pwsvc "sdvext-backend/services/pw"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(batchesCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Lists the batches the credential can access.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		t := newTable()

		switch *platform {
		case "kgs":
			service := kgssvc.NewService(kgs.NewClient(kgs.DefaultBaseURL), kgssvc.Options{})
			courses, err := service.ListBatches(ctx, *credential)
			if err != nil {
				serviceutil.Fatal("list batches", err)
			}
			t.AppendHeader(table.Row{"ID", "Title"})
			for _, course := range courses {
				t.AppendRow(table.Row{course.ID, course.Title})
			}
		case "pw":
			service := pwsvc.NewService(penpencil.NewClient(penpencil.DefaultBaseURL), pwsvc.Options{})
			batches, err := service.ListBatches(ctx, *credential)
			if err != nil {
				serviceutil.Fatal("list batches", err)
			}
			t.AppendHeader(table.Row{"ID", "Name", "Price"})
			for _, batch := range batches {
				t.AppendRow(table.Row{batch.ID, batch.Name, batch.Price})
			}
		default:
			serviceutil.Fatal("unknown platform", errUnknownPlatform(*platform))
		}

		t.Render()
	},
}
