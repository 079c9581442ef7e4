package live

// AnalysisService error codes, reported through cycle metrics.
const (
	codeCyclePanic = "LIV_9000"
)
