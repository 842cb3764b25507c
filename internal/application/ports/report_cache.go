package ports

import "context"

// ReportCache define el puerto de salida para cachear reportes de analítica.
// Cualquier adaptador (Redis, memoria, noop) debe implementar esta interfaz.
//
// Las entradas se guardan bajo una generación. Las escrituras del libro y de ventas llaman
// Invalidate, que abre una generación nueva; un reporte calculado con la generación anterior
// se guarda bajo esa generación y ninguna lectura posterior lo ve.
type ReportCache interface {
	// Generation devuelve la generación vigente.
	Generation(ctx context.Context) (string, error)
	// Get decodifica en dst el reporte guardado bajo (gen, key). found=false si no existe.
	Get(ctx context.Context, gen, key string, dst any) (found bool, err error)
	Set(ctx context.Context, gen, key string, value any) error
	Invalidate(ctx context.Context) error
}

// NoopReportCache no guarda nada; es el valor por defecto sin Redis.
type NoopReportCache struct{}

func (NoopReportCache) Generation(_ context.Context) (string, error) { return "", nil }

func (NoopReportCache) Get(_ context.Context, _, _ string, _ any) (bool, error) { return false, nil }

func (NoopReportCache) Set(_ context.Context, _, _ string, _ any) error { return nil }

func (NoopReportCache) Invalidate(_ context.Context) error { return nil }
