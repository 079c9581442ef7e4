package models

// AnalysisReport is the batch-mode output document: one full sliding-window
// run plus the cross-window bottleneck ranking.
//
// Example JSON:
//
//	{
//	  "input": "logs.csv",
//	  "source": "api-gateway",
//	  "sink": "db-user",
//	  "window": 60,
//	  "step": 30,
//	  "capacityField": "default",
//	  "windows": [
//	    {
//	      "start": "2025-06-01T10:00:00Z",
//	      "end": "2025-06-01T10:01:00Z",
//	      "flow": 4.25,
//	      "cutValue": 4.25,
//	      "minCut": [["auth", "db-user"]]
//	    }
//	  ],
//	  "aggregatedBottlenecks": [
//	    {"edge": ["auth", "db-user"], "count": 7}
//	  ]
//	}
type AnalysisReport struct {
	Input                 string                 `json:"input"`
	Source                string                 `json:"source"`
	Sink                  string                 `json:"sink"`
	WindowSeconds         int                    `json:"window"`
	StepSeconds           int                    `json:"step"`
	CapacityField         CapacityMetric         `json:"capacityField"`
	Windows               []WindowResult         `json:"windows"`
	AggregatedBottlenecks []AggregatedBottleneck `json:"aggregatedBottlenecks"`
}
