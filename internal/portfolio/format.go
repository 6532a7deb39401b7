package portfolio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Fixed2 redondea a dos decimales (mitad hacia arriba) y devuelve el texto
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatUSD muestra un monto como dólares ("$1,234.56"). Acepta float64,
// decimal.Decimal o un texto numérico; cualquier otra cosa se muestra como $0.00.
func FormatUSD(value any) string {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case string:
		parsed, err := decimal.NewFromString(v)
		if err == nil {
			d = parsed
		}
	case fmt.Stringer:
		parsed, err := decimal.NewFromString(v.String())
		if err == nil {
			d = parsed
		}
	}

	cents := d.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercent muestra un porcentaje con dos decimales y signo explícito
func FormatPercent(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}
