package core

import "errors"

// CategoryTag identifies one entry of the closed expense category catalog.
type CategoryTag string

// ServiceType narrows the "servicios" category to a utility kind.
type ServiceType string

// BankTag identifies a lender from the fixed bank catalog.
type BankTag string

const (
	CategoryVivienda        CategoryTag = "vivienda"
	CategoryServicios       CategoryTag = "servicios"
	CategoryAlimentacion    CategoryTag = "alimentacion"
	CategoryTransporte      CategoryTag = "transporte"
	CategorySalud           CategoryTag = "salud"
	CategoryEducacion       CategoryTag = "educacion"
	CategoryStreaming       CategoryTag = "streaming"
	CategoryDeudas          CategoryTag = "deudas"
	CategoryEntretenimiento CategoryTag = "entretenimiento"
	CategoryMascotas        CategoryTag = "mascotas"
	CategorySeguros         CategoryTag = "seguros"
	CategoryOtros           CategoryTag = "otros"

	ServiceEnergia        ServiceType = "energia"
	ServiceAgua           ServiceType = "agua"
	ServiceGas            ServiceType = "gas"
	ServiceInternet       ServiceType = "internet"
	ServiceTelefonia      ServiceType = "telefonia"
	ServiceAdministracion ServiceType = "administracion"

	BankBancolombia BankTag = "bancolombia"
	BankDavivienda  BankTag = "davivienda"
	BankBBVA        BankTag = "bbva"
	BankBogota      BankTag = "banco_bogota"
	BankColpatria   BankTag = "colpatria"
	BankAVVillas    BankTag = "av_villas"
	BankNequi       BankTag = "nequi"
	BankOtro        BankTag = "otro"
)

var (
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrUnknownBank        = errors.New("unknown bank")
)

// RecurrencePolicy is the default recurrence a category suggests for a new
// expense. It is a suggestion only: applied at creation or on an explicit
// category change, never over a user's later choice.
type RecurrencePolicy struct {
	Recurring  bool
	Recurrence Recurrence
}

type categoryEntry struct {
	Label  string
	Policy RecurrencePolicy
}

// categoryCatalog maps every known category to its display label and default
// recurrence policy. Unknown tags are rejected at the mutation boundary.
var categoryCatalog = map[CategoryTag]categoryEntry{
	CategoryVivienda:        {"Vivienda", RecurrencePolicy{true, RecurrenceFixed}},
	CategoryServicios:       {"Servicios", RecurrencePolicy{true, RecurrenceVariable}},
	CategoryAlimentacion:    {"Alimentación", RecurrencePolicy{}},
	CategoryTransporte:      {"Transporte", RecurrencePolicy{}},
	CategorySalud:           {"Salud", RecurrencePolicy{true, RecurrenceFixed}},
	CategoryEducacion:       {"Educación", RecurrencePolicy{true, RecurrenceFixed}},
	CategoryStreaming:       {"Streaming", RecurrencePolicy{true, RecurrenceFixed}},
	CategoryDeudas:          {"Deudas", RecurrencePolicy{}},
	CategoryEntretenimiento: {"Entretenimiento", RecurrencePolicy{}},
	CategoryMascotas:        {"Mascotas", RecurrencePolicy{}},
	CategorySeguros:         {"Seguros", RecurrencePolicy{true, RecurrenceFixed}},
	CategoryOtros:           {"Otros", RecurrencePolicy{}},
}

// incomeSourceCatalog maps known income sources to their "variable by
// default" flag. Free-text sources are allowed and default to not variable.
var incomeSourceCatalog = map[string]bool{
	"salario":     false,
	"pension":     false,
	"arriendos":   false,
	"honorarios":  true,
	"ventas":      true,
	"inversiones": true,
	"otros":       true,
}

var serviceTypes = map[ServiceType]struct{}{
	ServiceEnergia:        {},
	ServiceAgua:           {},
	ServiceGas:            {},
	ServiceInternet:       {},
	ServiceTelefonia:      {},
	ServiceAdministracion: {},
}

var banks = map[BankTag]string{
	BankBancolombia: "Bancolombia",
	BankDavivienda:  "Davivienda",
	BankBBVA:        "BBVA",
	BankBogota:      "Banco de Bogotá",
	BankColpatria:   "Colpatria",
	BankAVVillas:    "AV Villas",
	BankNequi:       "Nequi",
	BankOtro:        "Otro",
}

func (t CategoryTag) Validate() error {
	if _, ok := categoryCatalog[t]; !ok {
		return ErrUnknownCategory
	}
	return nil
}

// Label returns the display label for a category, or the raw tag when the
// tag is unknown (display paths must not fail on stale data).
func (t CategoryTag) Label() string {
	if e, ok := categoryCatalog[t]; ok {
		return e.Label
	}
	return string(t)
}

func (s ServiceType) Validate() error {
	if _, ok := serviceTypes[s]; !ok {
		return ErrUnknownServiceType
	}
	return nil
}

func (b BankTag) Validate() error {
	if _, ok := banks[b]; !ok {
		return ErrUnknownBank
	}
	return nil
}

// Label returns the bank display name, or the raw tag when unknown.
func (b BankTag) Label() string {
	if l, ok := banks[b]; ok {
		return l
	}
	return string(b)
}

// Categories returns every catalog tag in stable order.
func Categories() []CategoryTag {
	return []CategoryTag{
		CategoryVivienda, CategoryServicios, CategoryAlimentacion,
		CategoryTransporte, CategorySalud, CategoryEducacion,
		CategoryStreaming, CategoryDeudas, CategoryEntretenimiento,
		CategoryMascotas, CategorySeguros, CategoryOtros,
	}
}

// ClassifyCategory returns the default recurrence policy for a category.
// Unknown tags classify as not recurring.
func ClassifyCategory(tag CategoryTag) RecurrencePolicy {
	if e, ok := categoryCatalog[tag]; ok {
		return e.Policy
	}
	return RecurrencePolicy{}
}

// ClassifyIncomeSource reports whether an income from the given source is
// variable by default. Lookup is exact-match; unmatched sources are not
// variable.
func ClassifyIncomeSource(source string) bool {
	return incomeSourceCatalog[source]
}
