package entity

// Intent what the classifier decided a message asks for
type Intent int

const (
	IntentPassthrough Intent = iota
	IntentSessionTrigger
	IntentPriceTrigger
	IntentPriceQuery
	IntentMonthQuery
	IntentRegionQuery
	IntentCropPeriodQuery
	IntentHelp
)

func (i Intent) String() string {
	switch i {
	case IntentSessionTrigger:
		return "session_trigger"
	case IntentPriceTrigger:
		return "price_trigger"
	case IntentPriceQuery:
		return "price_query"
	case IntentMonthQuery:
		return "month_query"
	case IntentRegionQuery:
		return "region_query"
	case IntentCropPeriodQuery:
		return "crop_period_query"
	case IntentHelp:
		return "help"
	default:
		return "passthrough"
	}
}

// Decision classifier output: the intent, its parameters and the session mode to store
type Decision struct {
	Intent   Intent
	NextMode SessionMode

	CropTerm string   // price query, raw text
	Terms    []string // crop-period query
	Month    int
	Regions  []string // full county names, duplicates kept
	Type     string   // canonical product type, "" when none detected
}

// LookupStatus outcome of a query executor
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupUnavailable
)

func (s LookupStatus) String() string {
	switch s {
	case LookupNotFound:
		return "not_found"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "found"
	}
}

// LookupResult rendered executor output
type LookupResult struct {
	Status LookupStatus
	Text   string
}
