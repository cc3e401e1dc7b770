package extract

// Outcome records what happened to a single traversed item.
type Outcome int

const (
	// OutcomeEmitted: the item produced at least one output line.
	OutcomeEmitted Outcome = iota
	// OutcomeSkipped: the item was fetched fine but had no usable data
	// (missing nested structures, empty urls).
	OutcomeSkipped
	// OutcomeFetchFailed: fetching the item's detail failed and the
	// traversal moved on without it.
	OutcomeFetchFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmitted:
		return "emitted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFetchFailed:
		return "fetch_failed"
	}
	return "unknown"
}

type ItemOutcome struct {
	Item    string
	Outcome Outcome
	Err     error
}

// Report accumulates per-item outcomes in traversal order so that
// partial-failure semantics are inspectable instead of only visible
// in logs.
type Report struct {
	Items []ItemOutcome
	// Truncated is set when a hard page cap cut a listing short while
	// the upstream still had data.
	Truncated bool
}

func (r *Report) Emitted(item string) {
	r.Items = append(r.Items, ItemOutcome{Item: item, Outcome: OutcomeEmitted})
}

func (r *Report) Skipped(item string) {
	r.Items = append(r.Items, ItemOutcome{Item: item, Outcome: OutcomeSkipped})
}

func (r *Report) FetchFailed(item string, err error) {
	r.Items = append(r.Items, ItemOutcome{Item: item, Outcome: OutcomeFetchFailed, Err: err})
}

func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, item := range r.Items {
		if item.Outcome == outcome {
			n++
		}
	}
	return n
}
