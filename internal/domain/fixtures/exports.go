package fixtures

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/ifrs15/internal/domain/model"
)

type clientExport struct {
	name       string
	email      string
	phone      string
	status     string
	contracts  int
	totalValue int64
}

type contractExport struct {
	number      string
	customer    string
	value       int64
	status      string
	startDate   string
	obligations int
}

type revenueExport struct {
	contract    string
	description string
	allocated   int64
	progress    int
	recognized  int64
}

// Export returns the named export table: clients, contracts or revenue.
func Export(name string) (model.Table, bool) {
	switch name {
	case "clients":
		return ClientsExport(), true
	case "contracts":
		return ContractsExport(), true
	case "revenue":
		return RevenueExport(), true
	}
	return model.Table{}, false
}

// ClientsExport returns the clients spreadsheet.
func ClientsExport() model.Table {
	rows := []clientExport{
		{"Empresa ABC Ltda", "contato@abc.com.br", "(11) 99999-9999", "ativo", 2, 450000},
		{"Corporação XYZ S.A.", "admin@xyz.com.br", "(21) 88888-8888", "ativo", 1, 280000},
		{"Tech Solutions Inc", "info@techsol.com", "(11) 77777-7777", "inativo", 0, 0},
	}
	t := model.Table{
		FileName: "clientes.csv",
		Header:   []string{"Nome", "Email", "Telefone", "Status", "Total Contratos", "Valor Total"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.name, r.email, r.phone, r.status, strconv.Itoa(r.contracts), FormatBRL(r.totalValue),
		})
	}
	return t
}

// ContractsExport returns the contracts spreadsheet.
func ContractsExport() model.Table {
	rows := []contractExport{
		{"CTR-001", "Empresa ABC Ltda", 150000, "ativo", "2024-01-15", 2},
		{"CTR-002", "Corporação XYZ S.A.", 280000, "em_andamento", "2024-02-01", 2},
	}
	t := model.Table{
		FileName: "contratos.csv",
		Header:   []string{"Número", "Cliente", "Valor", "Status", "Data Início", "Performance Obligations"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.number, r.customer, FormatBRL(r.value), r.status, r.startDate, strconv.Itoa(r.obligations),
		})
	}
	return t
}

// RevenueExport returns the revenue recognition spreadsheet.
func RevenueExport() model.Table {
	rows := []revenueExport{
		{"CTR-001", "Desenvolvimento de Software", 100000, 75, 75000},
		{"CTR-001", "Treinamento e Suporte", 50000, 40, 20000},
		{"CTR-002", "Consultoria Especializada", 180000, 90, 162000},
		{"CTR-002", "Implementação", 100000, 60, 60000},
	}
	t := model.Table{
		FileName: "receitas.csv",
		Header:   []string{"Contrato", "Descrição", "Preço Alocado", "Progresso", "Receita Reconhecida"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.contract, r.description, FormatBRL(r.allocated), strconv.Itoa(r.progress) + "%", FormatBRL(r.recognized),
		})
	}
	return t
}

// FormatBRL renders whole reais with pt-BR digit grouping, e.g. "R$ 150.000".
func FormatBRL(v int64) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("R$ %d", v)
}
