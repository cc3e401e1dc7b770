package penpencil

import (
	"sdvext-backend/lib/restyutil"
	"sdvext-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("sdvext.lib.scrapers.penpencil")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
