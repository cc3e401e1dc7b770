package main

import (
	"flag"
	"net/http"
	"os"

	"sdvext-backend/lib/configutil"
	"sdvext-backend/lib/scrapers/kgs"
	"sdvext-backend/lib/scrapers/penpencil"
	"sdvext-backend/lib/serviceutil"
	"sdvext-backend/services/httpapi"
	kgssvc "sdvext-backend/services/kgs"
	pwsvc "sdvext-backend/services/pw"
)

type Config struct {
	Port      int    `json:"port"`
	OutputDir string `json:"output_dir"`
	KgsURL    string `json:"kgs_url"`
	PwURL     string `json:"pw_url"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.TempDir()
	}
	if cfg.KgsURL == "" {
		cfg.KgsURL = kgs.DefaultBaseURL
	}
	if cfg.PwURL == "" {
		cfg.PwURL = penpencil.DefaultBaseURL
	}
	err = os.MkdirAll(cfg.OutputDir, 0755)
	if err != nil {
		serviceutil.Fatal("create output directory", err)
	}

	api := httpapi.NewService(
		kgssvc.NewService(kgs.NewClient(cfg.KgsURL), kgssvc.Options{OutputDir: cfg.OutputDir}),
		pwsvc.NewService(penpencil.NewClient(cfg.PwURL), pwsvc.Options{OutputDir: cfg.OutputDir}),
	)

	mux := http.NewServeMux()
	api.Register(mux)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
