package smoke

import "time"

// Default run parameters.
const (
	DefaultRounds  = 3
	DefaultTimeout = 10 * time.Second

	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
)

// Expected fixture values.
const (
	expectedHealthStatus    = "healthy"
	expectedContracts       = 2
	expectedClients         = 2
	expectedTotalRecognized = 2450000
	expectedTotalPending    = 525000
	expectedProgress        = 75
	expectedNotFound        = "{\n  \"error\": \"Endpoint not found\"\n}"
	demoPagePath            = "/demo-static.html"
)
