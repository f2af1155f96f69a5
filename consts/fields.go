package consts

// StrategyConfig field keys accepted by config updates.
const (
	FieldRiskTolerance = "riskTolerance"
	FieldLeverage      = "leverage"
	FieldStopLoss      = "stopLoss"
	FieldTakeProfit    = "takeProfit"
	FieldMaxDrawdown   = "maxDrawdown"
	FieldIndicators    = "indicators"
)

// NumericFields lists the numeric StrategyConfig keys in display order.
var NumericFields = []string{
	FieldRiskTolerance,
	FieldLeverage,
	FieldMaxDrawdown,
	FieldStopLoss,
	FieldTakeProfit,
}

// LogCapacity bounds the log feed.
const LogCapacity = 50
