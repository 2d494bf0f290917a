package entity

// Recommendation is the discrete verdict of an analysis.
type Recommendation string

const (
	RecommendationStrongBuy        Recommendation = "STRONG_BUY"
	RecommendationBuy              Recommendation = "BUY"
	RecommendationHold             Recommendation = "HOLD"
	RecommendationSell             Recommendation = "SELL"
	RecommendationStrongSell       Recommendation = "STRONG_SELL"
	RecommendationInsufficientData Recommendation = "INSUFFICIENT_DATA"
)

// Label returns the human readable form, e.g. "STRONG BUY".
func (r Recommendation) Label() string {
	switch r {
	case RecommendationStrongBuy:
		return "STRONG BUY"
	case RecommendationStrongSell:
		return "STRONG SELL"
	case RecommendationInsufficientData:
		return "INSUFFICIENT DATA"
	default:
		return string(r)
	}
}
