package commands

import (
	"fmt"
	"log/slog"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/serviceutil"
	kgssvc "sdvext-backend/services/kgs"
	pwsvc "sdvext-backend/services/pw"

	"github.com/spf13/cobra"
)

type errUnknownPlatform string

func (e errUnknownPlatform) Error() string {
	return fmt.Sprintf("unknown platform %q, expected kgs or pw", string(e))
}

var batchID *string
var contentType *string
var outputDir *string

func init() {
	batchID = extractCmd.Flags().String("batch", "", "The batch id to extract.")
	contentType = extractCmd.Flags().String("content-type", "", "The pw content type to extract.")
	outputDir = extractCmd.Flags().String("out", ".", "The directory to write the output file to.")
	extractCmd.MarkFlagRequired("batch")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract --batch <id> [--content-type <type>] [--out <dir>]",
	Short: "Extracts a batch's content into a text file of label: url lines.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var path string
		var report extract.Report
		var err error

		switch *platform {
		case "kgs":
			service := kgssvc.NewService(kgs.NewClient(kgs.DefaultBaseURL), kgssvc.Options{OutputDir: *outputDir})
			path, report, err = service.Extract(ctx, *credential, *batchID)
		case "pw":
			ct, parseErr := pwsvc.ParseContentType(*contentType)
			if parseErr != nil {
				serviceutil.Fatal("parse content type", parseErr)
			}
			service := pwsvc.NewService(penpencil.NewClient(penpencil.DefaultBaseURL), pwsvc.Options{OutputDir: *outputDir})
			path, report, err = service.Extract(ctx, *credential, *batchID, ct)
		default:
			serviceutil.Fatal("unknown platform", errUnknownPlatform(*platform))
		}
		if err != nil {
			serviceutil.Fatal("extract", err)
		}

		slog.Info(
			"extraction complete",
			"emitted", report.Count(extract.OutcomeEmitted),
			"skipped", report.Count(extract.OutcomeSkipped),
			"fetch_failed", report.Count(extract.OutcomeFetchFailed),
			"truncated", report.Truncated,
		)
		fmt.Println(path)
	},
}
