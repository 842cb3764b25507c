package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// invoiceSuffixLen caracteres hexadecimales tomados de un UUIDv4 (16^6 combinaciones por día).
const invoiceSuffixLen = 6

// NewInvoiceNumberGenerator devuelve un generador INV-<YYYYMMDD>-<XXXXXX> con la fecha en loc.
// La unicidad la garantiza el constraint de la tabla; una colisión produce ErrDuplicateInvoice.
func NewInvoiceNumberGenerator(loc *time.Location) func(now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	return func(now time.Time) string {
		hex := strings.ReplaceAll(uuid.NewString(), "-", "")
		return "INV-" + now.In(loc).Format("20060102") + "-" + strings.ToUpper(hex[:invoiceSuffixLen])
	}
}
