package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Load reads and decodes the catalog, logging how many rows each table kept
// and dropped.
func Load(ctx context.Context, src Source, logger *zap.Logger) (Data, error) {
	t, err := src.Load(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("load catalog: %w", err)
	}

	d, rep := Decode(t)
	for _, sheet := range SheetNames {
		fields := []zap.Field{
			zap.String("sheet", sheet),
			zap.Int("loaded", rep.Loaded[sheet]),
		}
		if n := rep.Dropped[sheet]; n > 0 {
			fields = append(fields, zap.Int("dropped", n))
		}
		logger.Info("catalog table loaded", fields...)
	}
	return d, nil
}
