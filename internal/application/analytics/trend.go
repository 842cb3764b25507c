package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

const (
	defaultTrendDays   = 7
	maxTrendDays       = 90
	defaultTrendMonths = 6
	maxTrendMonths     = 24

	dayKey   = "2006-01-02"
	monthKey = "2006-01"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// SalesTrend serie diaria de los últimos days días (hoy incluido), con días sin ventas en cero.
// days <= 0 usa 7; el máximo es 90.
func (uc *AnalyticsUseCase) SalesTrend(ctx context.Context, days int) (*dto.TrendReport, error) {
	days = clamp(days, defaultTrendDays, maxTrendDays)
	return cached(ctx, uc, fmt.Sprintf("sales-trend:%d", days), func() (*dto.TrendReport, error) {
		today := startOfDay(uc.now().In(uc.loc))
		from := today.AddDate(0, 0, -(days - 1))
		to := today.AddDate(0, 0, 1)
		step := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		return uc.trend(ctx, repository.BucketDay, dayKey, dayLabel, from, to, step)
	})
}

// MonthlyTrend serie mensual de los últimos months meses (el actual incluido).
// months <= 0 usa 6; el máximo es 24.
func (uc *AnalyticsUseCase) MonthlyTrend(ctx context.Context, months int) (*dto.TrendReport, error) {
	months = clamp(months, defaultTrendMonths, maxTrendMonths)
	return cached(ctx, uc, fmt.Sprintf("monthly-trend:%d", months), func() (*dto.TrendReport, error) {
		now := uc.now().In(uc.loc)
		current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
		from := current.AddDate(0, -(months - 1), 0)
		to := current.AddDate(0, 1, 0)
		step := func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		return uc.trend(ctx, repository.BucketMonth, monthKey, monthLabel, from, to, step)
	})
}

// trend consulta los periodos con ventas y genera la serie completa [from, to).
// Los periodos del repositorio y los generados se comparan por fecha de pared en la zona.
func (uc *AnalyticsUseCase) trend(
	ctx context.Context,
	unit repository.BucketUnit,
	layout string,
	label func(time.Time) string,
	from, to time.Time,
	step func(time.Time) time.Time,
) (*dto.TrendReport, error) {
	rows, err := uc.analyticsRepo.SalesByBucket(ctx, unit, uc.loc, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics: tendencia por %s: %w", unit, err)
	}
	byPeriod := make(map[string]repository.SalesBucketResult, len(rows))
	for _, r := range rows {
		byPeriod[r.Bucket.Format(layout)] = r
	}

	report := &dto.TrendReport{Unit: string(unit), Timezone: uc.loc.String(), Points: []dto.TrendPointDTO{}}
	for t := from; t.Before(to); t = step(t) {
		key := t.Format(layout)
		r := byPeriod[key]
		report.Points = append(report.Points, dto.TrendPointDTO{
			Period:       key,
			Label:        label(t),
			Revenue:      r.Revenue.Round(2),
			Profit:       r.Revenue.Sub(r.Cost).Round(2),
			Transactions: r.Count,
		})
	}
	return report, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// clamp aplica el valor por defecto a n <= 0 y recorta al máximo.
func clamp(n, def, limit int) int {
	if n <= 0 {
		return def
	}
	if n > limit {
		return limit
	}
	return n
}

// dayLabel ej: "05 Mar".
func dayLabel(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), monthNames[t.Month()-1][:3])
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
