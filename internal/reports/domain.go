package reports

// DashboardCards carries the headline indicators for the home screen.
type DashboardCards struct {
	VendasMes       float64 `json:"vendas_mes"`
	TotalProdutos   int     `json:"total_produtos"`
	LucroMes        float64 `json:"lucro_mes"`
	VendasPendentes int     `json:"vendas_pendentes"`
}

// DailySale is one bucket of the day-grouped sales series.
type DailySale struct {
	Dia          string  `json:"dia"`
	TotalVendido float64 `json:"total_vendido"`
	Lucro        float64 `json:"lucro"`
	Quantidade   int     `json:"quantidade"`
}

// TopProduct ranks a product by units sold in the window.
type TopProduct struct {
	Nome         string  `json:"nome"`
	Quantidade   int     `json:"quantidade"`
	TotalVendido float64 `json:"total_vendido"`
}

// FinancialSummary aggregates the window's sales into one row.
type FinancialSummary struct {
	TotalVendas  int     `json:"total_vendas"`
	ReceitaTotal float64 `json:"receita_total"`
	CustoTotal   float64 `json:"custo_total"`
	LucroTotal   float64 `json:"lucro_total"`
	TicketMedio  float64 `json:"ticket_medio"`
}

// ReportDashboard is the payload of the reports screen.
type ReportDashboard struct {
	VendasDiarias    []DailySale      `json:"vendas_diarias"`
	TopProdutos      []TopProduct     `json:"top_produtos"`
	ResumoFinanceiro FinancialSummary `json:"resumo_financeiro"`
}
