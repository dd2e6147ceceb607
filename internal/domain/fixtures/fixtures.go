// Package fixtures holds the literal documents of the mock IFRS 15 API.
// Every function returns a fresh value; nothing here is mutable shared state.
package fixtures

import (
	"github.com/okian/ifrs15/internal/domain/model"
)

// NotFoundMessage is the error text for unknown API endpoints.
const NotFoundMessage = "Endpoint not found"

// Health returns the fixed health document.
func Health() model.Health {
	return model.Health{
		Status:    "healthy",
		Timestamp: "2024-08-28T22:10:00-03:00",
		Version:   "1.0.0",
		Service:   "IFRS 15 API",
	}
}

// Contracts returns the contract list document.
func Contracts() model.ContractList {
	data := []model.Contract{
		{
			ID:        "CTR-001",
			Customer:  "Empresa ABC Ltda",
			Value:     150000,
			Status:    "ativo",
			StartDate: "2024-01-15",
		},
		{
			ID:        "CTR-002",
			Customer:  "Corporação XYZ S.A.",
			Value:     280000,
			Status:    "em_andamento",
			StartDate: "2024-02-01",
		},
	}
	return model.ContractList{Data: data, Total: len(data)}
}

// Revenue returns the revenue recognition document.
func Revenue() model.Revenue {
	return model.Revenue{
		Data: model.RevenueSummary{
			TotalRecognized: 2450000,
			TotalPending:    525000,
			PerformanceObligations: []model.PerformanceObligation{
				{
					Contract:          "CTR-001",
					Description:       "Desenvolvimento de Software",
					AllocatedPrice:    100000,
					Progress:          75,
					RecognizedRevenue: 75000,
				},
			},
		},
	}
}

// Clients returns the client list document.
func Clients() model.ClientList {
	data := []model.Client{
		{
			ID:         "CLI-001",
			Name:       "Empresa ABC Ltda",
			Email:      "contato@empresaabc.com.br",
			TaxID:      "12.345.678/0001-90",
			Status:     "active",
			CreatedAt:  "2024-01-15",
			Contracts:  2,
			TotalValue: 150000,
		},
		{
			ID:         "CLI-002",
			Name:       "Corporação XYZ S.A.",
			Email:      "financeiro@corporacaoxyz.com.br",
			TaxID:      "98.765.432/0001-10",
			Status:     "active",
			CreatedAt:  "2024-02-01",
			Contracts:  1,
			TotalValue: 280000,
		},
	}
	return model.ClientList{Data: data, Total: len(data)}
}

// NotFound returns the error document for unknown API endpoints.
func NotFound() model.ErrorDocument {
	return model.ErrorDocument{Error: NotFoundMessage}
}
