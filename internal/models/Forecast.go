package models

type ForecastStatus int

const (
	ForecastOnDate ForecastStatus = iota
	ForecastAlreadyComplete
	ForecastUndeterminable
)

func (s ForecastStatus) String() string {
	switch s {
	case ForecastOnDate:
		return "date"
	case ForecastAlreadyComplete:
		return "already_complete"
	default:
		return "undeterminable"
	}
}

// Forecast is the finish-date prediction. Date is set only for ForecastOnDate.
type Forecast struct {
	Status ForecastStatus
	Date   Date
}
