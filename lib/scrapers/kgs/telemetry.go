package kgs

import (
	"sdvext-backend/lib/restyutil"
	"sdvext-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("sdvext.lib.scrapers.kgs")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
