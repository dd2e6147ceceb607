// Package model defines the documents served by the mock IFRS 15 API.
//
// Field order in every struct is the wire order; JSON clients of the
// development server depend on it.
package model

// Health is the body of GET /api/v1/health.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// Contract is a customer contract record.
type Contract struct {
	ID        string `json:"id"`
	Customer  string `json:"customer"`
	Value     int64  `json:"value"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
}

// ContractList is the body of GET /api/v1/contracts.
type ContractList struct {
	Data  []Contract `json:"data"`
	Total int        `json:"total"`
}

// PerformanceObligation is a promised deliverable with its allocated price
// and completion progress (percent).
type PerformanceObligation struct {
	Contract          string `json:"contract"`
	Description       string `json:"description"`
	AllocatedPrice    int64  `json:"allocatedPrice"`
	Progress          int    `json:"progress"`
	RecognizedRevenue int64  `json:"recognizedRevenue"`
}

// RevenueSummary aggregates recognized and pending revenue.
type RevenueSummary struct {
	TotalRecognized        int64                   `json:"totalRecognized"`
	TotalPending           int64                   `json:"totalPending"`
	PerformanceObligations []PerformanceObligation `json:"performanceObligations"`
}

// Revenue is the body of GET /api/v1/revenue.
type Revenue struct {
	Data RevenueSummary `json:"data"`
}

// Client is a customer record.
type Client struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TaxID      string `json:"taxId"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	Contracts  int    `json:"contracts"`
	TotalValue int64  `json:"totalValue"`
}

// ClientList is the body of GET /api/v1/clients.
type ClientList struct {
	Data  []Client `json:"data"`
	Total int      `json:"total"`
}

// ErrorDocument is returned for API paths with no endpoint behind them.
type ErrorDocument struct {
	Error string `json:"error"`
}

// Table is a CSV export: a file name, a header line and ordered rows.
type Table struct {
	FileName string
	Header   []string
	Rows     [][]string
}
