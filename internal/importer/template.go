package importer

// template.go produces the downloadable example file and the
// machine-readable description of the import schema. Neither participates
// in the import algorithm; they exist so operators can build a valid file
// without guessing.

import (
	"encoding/csv"
	"strings"
)

// CSVColumns lists the recognized columns in template order.
var CSVColumns = []string{
	"data",
	"placa",
	"litros",
	"preco_litro",
	"total",
	"odometro",
	"combustivel",
	"motorista",
	"posto",
	"centro_custo",
	"observacoes",
}

// Template returns a semicolon-delimited CSV with the header and two
// example rows: one with the total left blank for auto-calculation, one
// with an explicit total.
func Template() string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	w.Write(CSVColumns)
	w.Write([]string{
		"15/01/2025 08:30",
		"ABC-1234",
		"45,5",
		"5,89",
		"",
		"125430",
		"GASOLINA",
		"Joao Silva",
		"Posto Shell Centro",
		"Urbano",
		"Abastecimento rotina",
	})
	w.Write([]string{
		"16/01/2025 14:15",
		"XYZ-5678",
		"38,750",
		"6,459",
		"250,49",
		"89200",
		"ETANOL",
		"",
		"Ipiranga BR-101",
		"Rural",
		"",
	})
	w.Flush()

	return buf.String()
}

// ColumnSpec documents one recognized CSV column.
type ColumnSpec struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Default     string `json:"default,omitempty"`
}

// FormatSpecification is the machine-readable import format description.
type FormatSpecification struct {
	Encoding         string       `json:"encoding"`
	Delimiter        string       `json:"delimiter"`
	DecimalSeparator string       `json:"decimal_separator"`
	DateFormats      []string     `json:"date_formats"`
	Columns          []ColumnSpec `json:"columns"`
	Notes            []string     `json:"notes"`
}

// FormatSpec returns the import format description served alongside the
// template download.
func FormatSpec() FormatSpecification {
	return FormatSpecification{
		Encoding:         "UTF-8 ou ISO-8859-1 (Latin-1)",
		Delimiter:        "Ponto-e-virgula (;) ou virgula (,)",
		DecimalSeparator: "Virgula (,) ou ponto (.) - ambos sao aceitos",
		DateFormats: []string{
			"DD/MM/YYYY",
			"DD/MM/YYYY HH:MM",
			"DD/MM/YYYY HH:MM:SS",
			"YYYY-MM-DD",
		},
		Columns: []ColumnSpec{
			{
				Name:        "data",
				Required:    true,
				Description: "Data e hora do abastecimento",
				Example:     "15/01/2025 08:30",
			},
			{
				Name:        "placa",
				Required:    true,
				Description: "Placa do veiculo (deve estar cadastrado)",
				Example:     "ABC-1234",
			},
			{
				Name:        "litros",
				Required:    true,
				Description: "Quantidade de litros abastecidos",
				Example:     "45,5",
			},
			{
				Name:        "preco_litro",
				Required:    true,
				Description: "Preco por litro do combustivel",
				Example:     "5,89",
			},
			{
				Name:        "total",
				Required:    false,
				Description: "Valor total (calculado automaticamente se vazio)",
				Example:     "267,99",
			},
			{
				Name:        "odometro",
				Required:    true,
				Description: "Leitura do odometro em km",
				Example:     "125430",
			},
			{
				Name:        "combustivel",
				Required:    false,
				Description: "Tipo de combustivel (GASOLINA, ETANOL, DIESEL)",
				Example:     "GASOLINA",
				Default:     "GASOLINA",
			},
			{
				Name:        "motorista",
				Required:    false,
				Description: "Nome do motorista (deve estar cadastrado)",
				Example:     "Joao Silva",
			},
			{
				Name:        "posto",
				Required:    false,
				Description: "Nome do posto (deve estar cadastrado)",
				Example:     "Posto Shell Centro",
			},
			{
				Name:        "centro_custo",
				Required:    false,
				Description: "Nome do centro de custo (deve estar cadastrado)",
				Example:     "Urbano",
			},
			{
				Name:        "observacoes",
				Required:    false,
				Description: "Observacoes adicionais",
				Example:     "Abastecimento rotina",
			},
		},
		Notes: []string{
			"A primeira linha deve conter os nomes das colunas (cabecalho).",
			"Linhas duplicadas (mesma placa, data e litros) sao ignoradas automaticamente.",
			"Veiculos, motoristas, postos e centros de custo devem estar cadastrados previamente.",
			"O campo \"total\" e calculado automaticamente se deixado vazio.",
			"Formatos de data flexiveis: DD/MM/YYYY ou YYYY-MM-DD, com ou sem horario.",
		},
	}
}
