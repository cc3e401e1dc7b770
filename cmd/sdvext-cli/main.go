package main

import (
	"sdvext-backend/cmd/sdvext-cli/commands"
	"sdvext-backend/lib/serviceutil"
	"sdvext-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(serviceutil.SignalContext())
}
