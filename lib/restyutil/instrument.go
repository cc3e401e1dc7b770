package restyutil

import (
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DumpExchanges writes every request/response pair the client handles
// to `output`. A nil output makes this a no-op, so callers can wire it
// unconditionally and only pay for it in verbose mode.
func DumpExchanges(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		output.Write(id, formatHttpMessage(res))
		return nil
	})
}
