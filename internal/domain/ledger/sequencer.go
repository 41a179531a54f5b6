package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// Compare define el orden total canónico del replay. Es función exclusiva del contenido
// de las transacciones (nunca del orden de inserción ni del reloj al momento de calcular):
//
//  1. fecha de negocio ascendente (comparación de día calendario);
//  2. marca de creación ascendente, solo si ambas transacciones la tienen;
//  3. id ascendente (lexicográfico), desempate final siempre disponible.
//
// Con el id como último nivel el orden es estricto aunque dos transacciones compartan
// fecha y carezcan de marca de creación.
func Compare(a, b *entity.Transaction) int {
	if c := compareCalendarDay(a.Date, b.Date); c != 0 {
		return c
	}
	if a.CreatedAt != nil && b.CreatedAt != nil {
		if a.CreatedAt.Before(*b.CreatedAt) {
			return -1
		}
		if b.CreatedAt.Before(*a.CreatedAt) {
			return 1
		}
	}
	return strings.Compare(a.ID, b.ID)
}

// Sequence devuelve una copia de la colección ordenada con Compare.
// No muta la entrada; dos llamadas con el mismo conjunto (en cualquier orden)
// producen exactamente la misma secuencia.
func Sequence(txs []*entity.Transaction) []*entity.Transaction {
	ordered := append([]*entity.Transaction(nil), txs...)
	sort.Slice(ordered, func(i, j int) bool {
		return Compare(ordered[i], ordered[j]) < 0
	})
	return ordered
}

// compareCalendarDay compara solo el día calendario, ignorando hora y zona.
func compareCalendarDay(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return compareInt(ay, by)
	case am != bm:
		return compareInt(int(am), int(bm))
	default:
		return compareInt(ad, bd)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
