package consts

// Advisor panel texts
const (
	InsightInitializing = "Initializing AI analysis..."
	InsightAnalyzing    = "Analyzing current market conditions and account status..."
	InsightEmpty        = "Unable to fetch insight."

	MarketAnalysisFallback = "Unable to retrieve AI analysis at this time."
	StrategyAdviceFallback = "Check algorithm logs for technical details."
)

const (
	MarketAnalystInstruction   = "You are an expert quantitative trading analyst. Provide actionable insights based on data."
	StrategyAdvisorInstruction = "You are a senior algorithmic developer."

	MarketAnalysisTemperature float32 = 0.7
	StrategyAdviceTemperature float32 = 0.8

	// number of trailing portfolio points embedded in the market prompt
	MarketPromptWindow = 5
)
