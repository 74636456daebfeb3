package plan

import "fmt"

// IssuanceOutcome is the result of one issuance attempt
type IssuanceOutcome int

const (
	OutcomeIssued IssuanceOutcome = iota + 1
	OutcomeOverflow
	OutcomeInsufficientStock
	OutcomePlanNotFound
	OutcomeItemNotFound
)

var outcomeNames = map[IssuanceOutcome]string{
	OutcomeIssued:            "issued",
	OutcomeOverflow:          "overflow",
	OutcomeInsufficientStock: "insufficient_stock",
	OutcomePlanNotFound:      "plan_not_found",
	OutcomeItemNotFound:      "item_not_found",
}

func (o IssuanceOutcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// IsValid reports whether o is one of the declared outcomes
func (o IssuanceOutcome) IsValid() bool {
	_, ok := outcomeNames[o]
	return ok
}

// MarshalText encodes the outcome by name
func (o IssuanceOutcome) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("invalid issuance outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name
func (o *IssuanceOutcome) UnmarshalText(b []byte) error {
	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome converts a name back to an outcome
func ParseOutcome(s string) (IssuanceOutcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown issuance outcome %q", s)
}

// StoreRequestStatus maps the outcome of processing a store request to the
// status recorded on it
func (o IssuanceOutcome) StoreRequestStatus() StoreRequestStatus {
	switch o {
	case OutcomeIssued:
		return StoreRequestDone
	case OutcomeOverflow:
		return StoreRequestRedirectedOverflow
	case OutcomeInsufficientStock:
		return StoreRequestRedirectedInsufficientStock
	case OutcomePlanNotFound:
		return StoreRequestRedirectedPlanNotFound
	case OutcomeItemNotFound:
		return StoreRequestRedirectedItemNotFound
	default:
		return ""
	}
}
