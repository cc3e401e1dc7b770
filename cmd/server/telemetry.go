package main

import (
	"context"
	"log/slog"
	"os"

	"sdvext-backend/lib/restyutil"
	"sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/serviceutil"
	"sdvext-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "server")
	if os.IsNotExist(err) {
		slog.Info("no telemetry.json5 found, otlp export disabled")
	} else if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	} else {
		go func() {
			<-ctx.Done()
			telemetry.Shutdown(context.Background())
		}()
		telemetry.InstrumentPerfStats(ctx)
	}

	if !verbose {
		return
	}

	kgs.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/kgs"),
	)
	penpencil.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/penpencil"),
	)
}
